package switchbank

import "errors"

// Slots is the number of aux outputs the plugin manages
const Slots = 4

// RecordSize is the size of the persisted settings record, one byte per slot
const RecordSize = Slots

// ErrCorruptRecord is returned when a persisted record cannot be decoded
var ErrCorruptRecord = errors.New("switchbank: corrupt settings record")

// Settings assigns a function to every slot
type Settings struct {
	Function [Slots]Function
}

// DefaultSettings returns every slot set to FunctionMCode
func DefaultSettings() Settings {
	return Settings{}
}

// MarshalBinary encodes the record stored in NVS
func (s Settings) MarshalBinary() ([]byte, error) {
	data := make([]byte, RecordSize)
	for i, f := range s.Function {
		data[i] = byte(f)
	}
	return data, nil
}

// UnmarshalBinary decodes a record. s is left unchanged on error.
func (s *Settings) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return ErrCorruptRecord
	}
	var decoded Settings
	for i := range decoded.Function {
		f := Function(data[i])
		if !f.Valid() {
			return ErrCorruptRecord
		}
		decoded.Function[i] = f
	}
	*s = decoded
	return nil
}
