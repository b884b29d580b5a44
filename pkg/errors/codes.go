package errors

import "fmt"

// Code is a stable error code. Values never change between releases.
type Code int

const (
	CodeNone                 Code = 0
	CodeContainerNotSet      Code = 1
	CodeScaleNotSet          Code = 2
	CodeWrongTableContents   Code = 3
	CodeNoFeatureInModule    Code = 4
	CodeScaleDateRangeNotSet Code = 5
	CodeIncorrectScaleType   Code = 6
	CodeUnknownChartType     Code = 7
	CodeUnknownSeriesType    Code = 8
)

// Description returns the human readable message for the code.
func (c Code) Description(args ...any) string {
	switch c {
	case CodeContainerNotSet:
		return "Container is not set or can not be properly recognized. Use SetContainer to set it."
	case CodeScaleNotSet:
		return "Scale is not set. Use SetScale to set it."
	case CodeWrongTableContents:
		return "Table contents accept only a slice of slices."
	case CodeNoFeatureInModule:
		return fmt.Sprintf("Feature %q is not supported in this module.", arg(args, 0))
	case CodeScaleDateRangeNotSet:
		return "Dates range must be set for a date time scale. Use SetRange(min, max) to set it."
	case CodeIncorrectScaleType:
		return "Scatter chart scales should be only scatter type (linear, log)."
	case CodeUnknownChartType:
		return fmt.Sprintf("Chart type %q is not registered.", arg(args, 0))
	case CodeUnknownSeriesType:
		return fmt.Sprintf("Series type %q is not registered.", arg(args, 0))
	default:
		return "Unknown error occurred."
	}
}

// WarningCode is a stable warning code.
type WarningCode int

const (
	WarnNone                  WarningCode = 0
	WarnCantSerializeFunction WarningCode = 1
	WarnNotFound              WarningCode = 2
	WarnUnknownOption         WarningCode = 3
	WarnOutOfRange            WarningCode = 4
)

// Description returns the human readable message for the warning code.
func (c WarningCode) Description(args ...any) string {
	switch c {
	case WarnCantSerializeFunction:
		return fmt.Sprintf("Function %q can not be serialized, reset it manually.", arg(args, 0))
	case WarnNotFound:
		return fmt.Sprintf("%v with id=%q is not found.", arg(args, 0), arg(args, 1))
	case WarnUnknownOption:
		return fmt.Sprintf("Option %q is not recognized by %v and is ignored.", arg(args, 0), arg(args, 1))
	case WarnOutOfRange:
		return fmt.Sprintf("Value %v is out of range [%v, %v].", arg(args, 0), arg(args, 1), arg(args, 2))
	default:
		return "Unknown warning."
	}
}

func arg(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return ""
}
