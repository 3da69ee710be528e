package config

import "sort"

// Sets groups catalog names by the quantity they measure, smallest first.
var Sets = map[string][]string{
	"time":      {"ns", "us", "ms", "s"},
	"length":    {"nm", "um", "mm", "m", "km"},
	"frequency": {"Hz", "kHz", "MHz", "GHz"},
	"voltage":   {"uV", "mV", "V", "kV", "MV"},
	"current":   {"uA", "mA", "A", "kA", "MA"},
}

func GetSet(name string) []string {
	set, ok := Sets[name]
	if !ok {
		return nil
	}
	return set
}

func ListSets() []string {
	names := make([]string, 0, len(Sets))
	for name := range Sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
