package bot

// Config represents the configuration for the report publisher
type Config struct {
	// Chat that receives the digest
	ChatID int64
	// Number of summary groups listed in the digest
	MaxGroups int
	// Send the XLSX artifact after the digest
	AttachWorkbook bool
}

// DefaultConfig returns the default publisher configuration
func DefaultConfig(chatID int64) *Config {
	return &Config{
		ChatID:         chatID,
		MaxGroups:      10,
		AttachWorkbook: true,
	}
}
