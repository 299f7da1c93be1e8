package karma

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"

	"karmad/internal/errorlog"
	kerrors "karmad/internal/errors"
)

// Load reads a ranges file and builds a validated registry from it.
// Files ending in .toml are decoded as TOML tables; everything else is
// parsed as UTF-8 INI with one section per tier plus a DEFAULT section.
func Load(path string) (*Registry, error) {
	return LoadWithReporter(path, nil)
}

// LoadWithReporter is Load with an injected diagnostic sink.
func LoadWithReporter(path string, rep errorlog.Reporter) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ConfigNotFound,
			fmt.Sprintf("cannot read ranges file %s", path), err)
	}

	var sections []Section
	var def Section
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		sections, def, err = decodeTOML(data)
	} else {
		sections, def, err = decodeINI(data)
	}
	if err != nil {
		if rep != nil {
			rep.Report("ranges file decode failure", err.Error())
		}
		return nil, err
	}

	return Build(sections, def, rep)
}

// decodeINI extracts tier sections and the DEFAULT section from INI text.
// A missing DEFAULT section surfaces later as MissingField when its (empty)
// section is parsed, which keeps the fail-closed behavior in one place.
func decodeINI(data []byte) ([]Section, Section, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, Section{}, kerrors.Wrap(kerrors.InvalidValue, "malformed ranges file", err)
	}

	var sections []Section
	for _, s := range f.Sections() {
		if s.Name() == ini.DefaultSection {
			continue
		}
		sections = append(sections, iniSection(s))
	}
	return sections, iniSection(f.Section(ini.DefaultSection)), nil
}

func iniSection(s *ini.Section) Section {
	sec := NewSection(s.Name())
	for key, value := range s.KeysHash() {
		sec.Set(key, value)
	}
	return sec
}

// tomlDefaultSection is the table name playing the DEFAULT role in .toml
// ranges files, mirroring the INI layout.
const tomlDefaultSection = "DEFAULT"

// decodeTOML extracts tier sections from a TOML document of tables, one per
// tier plus a DEFAULT table. Values may be strings, integers, or booleans;
// they are normalized to the same string form the INI path produces.
func decodeTOML(data []byte) ([]Section, Section, error) {
	var raw map[string]map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, Section{}, kerrors.Wrap(kerrors.InvalidValue, "malformed ranges file", err)
	}

	def := NewSection(tomlDefaultSection)
	var sections []Section
	for name, table := range raw {
		sec := NewSection(name)
		for key, value := range table {
			sec.Set(key, tomlValueString(value))
		}
		if name == tomlDefaultSection {
			def = sec
			continue
		}
		sections = append(sections, sec)
	}
	return sections, def, nil
}

func tomlValueString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
