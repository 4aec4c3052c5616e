package service

import "docprocessor/internal/config"

// DatabaseInfo describes the database the process talks to, for display only.
// It is written once at startup and not synchronized.
type DatabaseInfo struct {
	DatabaseType string `json:"database_type"`
	SecretName   string `json:"secret_name"`
	HostAddress  string `json:"host_address"`
}

// NewDatabaseInfo returns the unconfigured defaults.
func NewDatabaseInfo() *DatabaseInfo {
	return &DatabaseInfo{
		DatabaseType: "PostgreSQL",
		SecretName:   "None",
		HostAddress:  "Unknown",
	}
}

// ApplyConfig overwrites the fields that cfg sets.
func (i *DatabaseInfo) ApplyConfig(cfg config.DatabaseInfoConfig) {
	if cfg.Type != "" {
		i.DatabaseType = cfg.Type
	}
	if cfg.SecretName != "" {
		i.SecretName = cfg.SecretName
	}
	if cfg.Host != "" {
		i.HostAddress = cfg.Host
	}
}
