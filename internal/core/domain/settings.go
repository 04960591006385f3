package domain

import (
	"runtime"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// OS is the target operating system of a build.
type OS string

const (
	// OSLinux targets Linux.
	OSLinux OS = "Linux"
	// OSWindows targets Windows.
	OSWindows OS = "Windows"
	// OSMacos targets macOS.
	OSMacos OS = "Macos"
	// OSFreeBSD targets FreeBSD.
	OSFreeBSD OS = "FreeBSD"
)

// CompilerFamily identifies the compiler toolchain.
type CompilerFamily string

const (
	// CompilerGCC is the GNU compiler collection.
	CompilerGCC CompilerFamily = "gcc"
	// CompilerClang is LLVM clang.
	CompilerClang CompilerFamily = "clang"
	// CompilerAppleClang is the clang shipped with Xcode.
	CompilerAppleClang CompilerFamily = "apple-clang"
	// CompilerVisualStudio is the Visual Studio IDE toolchain, a multi-configuration generator.
	CompilerVisualStudio CompilerFamily = "Visual Studio"
	// CompilerMSVC is the standalone MSVC toolchain.
	CompilerMSVC CompilerFamily = "msvc"
)

// BuildType is the build configuration.
type BuildType string

const (
	// BuildRelease is an optimized build.
	BuildRelease BuildType = "Release"
	// BuildDebug is a debug build.
	BuildDebug BuildType = "Debug"
	// BuildRelWithDebInfo is an optimized build with debug information.
	BuildRelWithDebInfo BuildType = "RelWithDebInfo"
	// BuildMinSizeRel is a size-optimized build.
	BuildMinSizeRel BuildType = "MinSizeRel"
)

// Setting keys accepted by ParseSettings.
const (
	SettingOS              = "os"
	SettingArch            = "arch"
	SettingCompiler        = "compiler"
	SettingCompilerVersion = "compiler.version"
	SettingCppStd          = "compiler.cppstd"
	SettingRuntime         = "compiler.runtime"
	SettingBuildType       = "build_type"
)

var (
	knownOS        = []OS{OSLinux, OSWindows, OSMacos, OSFreeBSD}
	knownCompilers = []CompilerFamily{
		CompilerGCC, CompilerClang, CompilerAppleClang, CompilerVisualStudio, CompilerMSVC,
	}
	knownBuildTypes = []BuildType{BuildRelease, BuildDebug, BuildRelWithDebInfo, BuildMinSizeRel}
	knownRuntimes   = []string{"", "MT", "MTd", "MD", "MDd", "static", "dynamic"}
)

// Settings is the immutable platform and toolchain descriptor of a build invocation.
type Settings struct {
	OS              OS
	Arch            string
	Compiler        CompilerFamily
	CompilerVersion string
	CppStd          string
	Runtime         string
	BuildType       BuildType
}

// DefaultSettings describes the host platform with a release build.
func DefaultSettings() Settings {
	s := Settings{
		OS:        OSLinux,
		Arch:      hostArch(),
		Compiler:  CompilerGCC,
		BuildType: BuildRelease,
	}
	switch runtime.GOOS {
	case "windows":
		s.OS = OSWindows
		s.Compiler = CompilerVisualStudio
		s.Runtime = "MD"
	case "darwin":
		s.OS = OSMacos
		s.Compiler = CompilerAppleClang
	case "freebsd":
		s.OS = OSFreeBSD
		s.Compiler = CompilerClang
	}
	return s
}

func hostArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "386":
		return "x86"
	case "arm64":
		return "armv8"
	default:
		return runtime.GOARCH
	}
}

// ParseSettings overlays key/value pairs on base and validates the result.
func ParseSettings(base Settings, values map[string]string) (Settings, error) {
	s := base
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		value := strings.TrimSpace(values[key])
		switch key {
		case SettingOS:
			s.OS = OS(value)
		case SettingArch:
			s.Arch = value
		case SettingCompiler:
			s.Compiler = CompilerFamily(value)
		case SettingCompilerVersion:
			s.CompilerVersion = value
		case SettingCppStd:
			s.CppStd = value
		case SettingRuntime:
			s.Runtime = value
		case SettingBuildType:
			s.BuildType = BuildType(value)
		default:
			return Settings{}, zerr.With(zerr.Wrap(ErrInvalidSetting, "unknown setting key"), "key", key)
		}
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks every setting against its enumerated domain.
func (s Settings) Validate() error {
	if !slices.Contains(knownOS, s.OS) {
		return invalidSetting(SettingOS, string(s.OS))
	}
	if !slices.Contains(knownCompilers, s.Compiler) {
		return invalidSetting(SettingCompiler, string(s.Compiler))
	}
	if !slices.Contains(knownBuildTypes, s.BuildType) {
		return invalidSetting(SettingBuildType, string(s.BuildType))
	}
	if !slices.Contains(knownRuntimes, s.Runtime) {
		return invalidSetting(SettingRuntime, s.Runtime)
	}
	if s.CppStd != "" {
		if _, ok := s.CppStdYear(); !ok {
			return invalidSetting(SettingCppStd, s.CppStd)
		}
	}
	return nil
}

func invalidSetting(key, value string) error {
	err := zerr.Wrap(ErrInvalidSetting, "value not allowed")
	return zerr.With(zerr.With(err, "key", key), "value", value)
}

// Map returns the settings as key/value pairs, omitting empty values.
func (s Settings) Map() map[string]string {
	m := map[string]string{
		SettingOS:        string(s.OS),
		SettingArch:      s.Arch,
		SettingCompiler:  string(s.Compiler),
		SettingBuildType: string(s.BuildType),
	}
	if s.CompilerVersion != "" {
		m[SettingCompilerVersion] = s.CompilerVersion
	}
	if s.CppStd != "" {
		m[SettingCppStd] = s.CppStd
	}
	if s.Runtime != "" {
		m[SettingRuntime] = s.Runtime
	}
	return m
}

// CppStdNumber returns the numeric C++ standard (14 for "gnu14").
func (s Settings) CppStdNumber() (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(s.CppStd, "gnu"))
	if err != nil {
		return 0, false
	}
	return n, true
}

// CppStdYear returns the publication year of the C++ standard, so that 98 orders before 11.
func (s Settings) CppStdYear() (int, bool) {
	n, ok := s.CppStdNumber()
	if !ok {
		return 0, false
	}
	return cppStdYear(n)
}

func cppStdYear(n int) (int, bool) {
	switch n {
	case 98:
		return 1998, true
	case 11, 14, 17, 20, 23, 26:
		return 2000 + n, true
	default:
		return 0, false
	}
}

// CheckMinCppStd returns ErrInvalidConfiguration when the configured C++ standard is
// older than minimum. An unset standard is accepted.
func (s Settings) CheckMinCppStd(minimum int) error {
	if minimum == 0 || s.CppStd == "" {
		return nil
	}
	current, _ := s.CppStdYear()
	required, ok := cppStdYear(minimum)
	if !ok || current >= required {
		return nil
	}
	err := zerr.Wrap(ErrInvalidConfiguration, "C++ standard is too old")
	return zerr.With(zerr.With(err, "cppstd", s.CppStd), "min_cppstd", strconv.Itoa(minimum))
}
