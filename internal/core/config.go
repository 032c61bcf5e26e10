package core

// RuntimeConfig contains values fixed for the lifetime of the program.
type RuntimeConfig struct {
	Region Region
	Seed   int64 // 0 means seed from the clock in the platform layer
}
