package errors

// Error codes surfaced by the driver and the ESIR text surface.
// These codes are used in error messages and documentation to provide
// consistent error identification across the toolchain.
//
// Error code ranges:
// E1001-E1099: Exploded analysis failures (spec §7, error kind 2)
// E1101-E1199: Hard errors — malformed IR or invalid SDO target (spec §7, error kind 3)
// E1200-E1299: ESIR text surface parse errors
// E1900-E1999: Reserved for tooling errors

const (
	// E1001: generic exploded failure, tag identifies the imprecise site
	ErrorExploded = "E1001"

	// E1101: generic hard error, message identifies the malformed-IR condition
	ErrorHardError = "E1101"

	// E1200: ESIR text surface syntax error
	ErrorParseSyntax = "E1200"

	// E1201: reference to an undeclared block label within a function
	ErrorUndefinedLabel = "E1201"

	// E1202: call to a function not present in the program's function map
	ErrorUndefinedFunction = "E1202"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorExploded:
		return "analysis aborted: the abstract domain cannot safely approximate this site"
	case ErrorHardError:
		return "malformed IR or invalid syntax-directed operation target"
	case ErrorParseSyntax:
		return "ESIR text surface syntax error"
	case ErrorUndefinedLabel:
		return "block label referenced but not declared in this function"
	case ErrorUndefinedFunction:
		return "function referenced but not declared in this program"
	default:
		return "unknown error code"
	}
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "E1001" && code < "E1100":
		return "Exploded"
	case code >= "E1101" && code < "E1200":
		return "Hard Error"
	case code >= "E1200" && code < "E1300":
		return "Parse"
	default:
		return "Unknown"
	}
}
