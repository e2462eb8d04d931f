package ocr

import "fmt"

// ConversionError reports that the source document could not be rasterized.
type ConversionError struct {
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("pdf conversion failed: %s", e.Reason)
}

// RecognitionError reports that text recognition over the rasterized page
// failed with the given process exit code.
type RecognitionError struct {
	Code int
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("text recognition failed with code %d", e.Code)
}

// conversionReason maps a pdftoppm exit code to a human-readable reason.
func conversionReason(code int) string {
	switch code {
	case 1:
		return "error opening PDF file"
	case 2:
		return "error opening an output file"
	case 3:
		return "error related to PDF permissions"
	case 99:
		return "other error"
	default:
		return fmt.Sprintf("other error, code %d", code)
	}
}
