package core

import "strings"

// SettingID is the $<n> number of a setting
type SettingID uint16

// Setting numbers reserved for plugins
const (
	SettingUserDefined0 SettingID = 450 + iota
	SettingUserDefined1
	SettingUserDefined2
	SettingUserDefined3
	SettingUserDefined4
	SettingUserDefined5
	SettingUserDefined6
	SettingUserDefined7
	SettingUserDefined8
	SettingUserDefined9
)

// SettingGroup identifies a settings group in $EG output
type SettingGroup uint8

const (
	GroupRoot SettingGroup = iota
	GroupGeneral
	GroupAuxPorts
)

// SettingFormat selects how a value is parsed and validated
type SettingFormat uint8

const (
	FormatBool SettingFormat = iota
	FormatRadioButtons
	FormatInteger
)

func (f SettingFormat) String() string {
	switch f {
	case FormatBool:
		return "bool"
	case FormatRadioButtons:
		return "radio"
	case FormatInteger:
		return "integer"
	default:
		return "unknown"
	}
}

// SettingGroupDetail names a group
type SettingGroupDetail struct {
	Parent SettingGroup
	ID     SettingGroup
	Name   string
}

// SettingDetail describes one setting and binds it to its storage.
// Options holds the comma separated choices of a radio button setting.
type SettingDetail struct {
	ID      SettingID
	Group   SettingGroup
	Name    string
	Unit    string
	Format  SettingFormat
	Options string
	Min     uint32
	Max     uint32
	Get     func() uint32
	Set     func(uint32)
}

// SettingDescr is the help text for a setting
type SettingDescr struct {
	ID          SettingID
	Description string
}

// SettingDetails is the descriptor a plugin registers. Load is called on
// registration, Save after every successful change, Restore on $RST=$.
type SettingDetails struct {
	Groups       []SettingGroupDetail
	Settings     []SettingDetail
	Descriptions []SettingDescr
	Save         func()
	Load         func()
	Restore      func()
}

// Settings is the registry behind the $ commands
type Settings struct {
	details []*SettingDetails
}

// Register adds a descriptor and loads its persisted values
func (s *Settings) Register(d *SettingDetails) {
	s.details = append(s.details, d)
	if d.Load != nil {
		d.Load()
	}
}

// Unregister removes a descriptor added with Register
func (s *Settings) Unregister(d *SettingDetails) bool {
	for i, registered := range s.details {
		if registered == d {
			s.details = append(s.details[:i], s.details[i+1:]...)
			return true
		}
	}
	return false
}

// Registered returns the number of registered descriptors
func (s *Settings) Registered() int {
	return len(s.details)
}

func (s *Settings) find(id SettingID) (*SettingDetails, *SettingDetail) {
	for _, d := range s.details {
		for i := range d.Settings {
			if d.Settings[i].ID == id {
				return d, &d.Settings[i]
			}
		}
	}
	return nil, nil
}

// Get returns the current value of a setting
func (s *Settings) Get(id SettingID) (uint32, bool) {
	_, setting := s.find(id)
	if setting == nil || setting.Get == nil {
		return 0, false
	}
	return setting.Get(), true
}

// Set validates and applies value, then saves the owning descriptor
func (s *Settings) Set(id SettingID, value string) error {
	owner, setting := s.find(id)
	if setting == nil || setting.Set == nil {
		return ErrSettingUnknown
	}

	v, ok := ParseUint(strings.TrimSpace(value))
	if !ok {
		return ErrSettingInvalid
	}
	switch setting.Format {
	case FormatBool:
		if v > 1 {
			return ErrSettingInvalid
		}
	case FormatRadioButtons:
		if v >= uint32(optionCount(setting.Options)) {
			return ErrSettingInvalid
		}
	case FormatInteger:
		if v < setting.Min || (setting.Max > setting.Min && v > setting.Max) {
			return ErrSettingInvalid
		}
	}

	setting.Set(v)
	if owner.Save != nil {
		owner.Save()
	}
	return nil
}

// RestoreAll resets every descriptor to its defaults
func (s *Settings) RestoreAll() {
	for _, d := range s.details {
		if d.Restore != nil {
			d.Restore()
		}
	}
}

// Report writes a $<id>=<value> line per setting
func (s *Settings) Report(out *Stream) {
	for _, d := range s.details {
		for i := range d.Settings {
			setting := &d.Settings[i]
			if setting.Get == nil {
				continue
			}
			out.WriteLine("$" + utoa(uint32(setting.ID)) + "=" + utoa(setting.Get()))
		}
	}
}

// ReportDetail writes the description of one setting.
// It returns false if id is unknown.
func (s *Settings) ReportDetail(out *Stream, id SettingID) bool {
	owner, setting := s.find(id)
	if setting == nil {
		return false
	}

	line := "[SETTING:" + utoa(uint32(id)) + "|" + s.groupName(setting.Group) + "|" +
		setting.Name + "|" + setting.Unit + "|" + setting.Format.String() + "|"
	switch setting.Format {
	case FormatRadioButtons:
		line += setting.Options
	case FormatInteger:
		line += utoa(setting.Min) + "," + utoa(setting.Max)
	}
	out.WriteLine(line + "]")

	for _, descr := range owner.Descriptions {
		if descr.ID == id {
			out.WriteLine("[SETTINGDESCR:" + utoa(uint32(id)) + "|" + descr.Description + "]")
		}
	}
	return true
}

// ReportGroups writes one line per registered group
func (s *Settings) ReportGroups(out *Stream) {
	for _, d := range s.details {
		for _, g := range d.Groups {
			out.WriteLine("[SETTINGGROUP:" + utoa(uint32(g.ID)) + "|" + utoa(uint32(g.Parent)) + "|" + g.Name + "]")
		}
	}
}

func (s *Settings) groupName(id SettingGroup) string {
	for _, d := range s.details {
		for _, g := range d.Groups {
			if g.ID == id {
				return g.Name
			}
		}
	}
	return ""
}

func optionCount(options string) int {
	if options == "" {
		return 0
	}
	return strings.Count(options, ",") + 1
}
