package store

// Config holds configuration for the Store.
type Config struct {
	// TableName is the DynamoDB table holding employee records.
	// Default: "employees"
	TableName string

	// KeyAttribute is the partition key attribute name.
	// Default: "employeeId"
	KeyAttribute string

	// Projection restricts the attributes returned by Fetch and List when the
	// caller passes none. Empty means the whole record.
	Projection []string
}

// DefaultConfig returns the configuration used by the deployed service.
func DefaultConfig() Config {
	return Config{
		TableName:    "employees",
		KeyAttribute: "employeeId",
	}
}

// validate fills in defaults for missing values.
func (c *Config) validate() {
	if c.TableName == "" {
		c.TableName = "employees"
	}
	if c.KeyAttribute == "" {
		c.KeyAttribute = "employeeId"
	}
}
