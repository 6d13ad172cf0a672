package intake

// Detector guesses the text encoding of a file from a bounded byte sample.
type Detector interface {
	// Detect returns an encoding name for the sample. It never fails: when
	// nothing can be determined confidently it returns the configured default.
	Detect(sample []byte) string

	// SampleSize is the maximum number of leading bytes Detect looks at.
	SampleSize() int

	// Decode converts data in the named encoding to a UTF-8 string, replacing
	// undecodable sequences with U+FFFD.
	Decode(data []byte, encoding string) (string, error)
}
