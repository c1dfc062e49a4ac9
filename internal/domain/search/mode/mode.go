package mode

// Mode is the keyword extraction strategy.
type Mode string

// Extraction mode constants.
const (
	// Naive tokenizes the query locally.
	Naive Mode = "naive"
	// Assisted asks the keyword model and falls back to Naive on any failure.
	Assisted Mode = "assisted"
)

// FromFlag maps the caller's useLLM flag to a mode.
func FromFlag(useLLM bool) Mode {
	if useLLM {
		return Assisted
	}
	return Naive
}

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Naive || m == Assisted
}
