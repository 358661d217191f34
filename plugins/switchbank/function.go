package switchbank

// Function is the action an aux output slot follows
type Function uint8

const (
	FunctionMCode              Function = iota // driven only by M62-M65
	FunctionSpindleActive                      // follows spindle on/off
	FunctionCoolantMistActive                  // follows mist coolant
	FunctionCoolantFloodActive                 // follows flood coolant

	functionCount
)

// FunctionOptions lists the radio button labels in Function order
const FunctionOptions = "M62-M65,Spindle/Laser Enable(M3/M4),Mist Enable(M7),Flood Enable(M8)"

// Valid reports whether f is a known function
func (f Function) Valid() bool {
	return f < functionCount
}

func (f Function) String() string {
	switch f {
	case FunctionMCode:
		return "MCode"
	case FunctionSpindleActive:
		return "SpindleActive"
	case FunctionCoolantMistActive:
		return "CoolantMistActive"
	case FunctionCoolantFloodActive:
		return "CoolantFloodActive"
	default:
		return "Unknown"
	}
}
