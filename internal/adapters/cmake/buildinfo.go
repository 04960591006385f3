package cmake

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// BuildInfoFile is the name of the file recipes include from the build tree.
const BuildInfoFile = "conanbuildinfo.cmake"

// runtimeFlags maps compiler runtimes to MSVC flags.
var runtimeFlags = map[string]string{
	"MT":      "MT",
	"MTd":     "MTd",
	"MD":      "MD",
	"MDd":     "MDd",
	"static":  "MT",
	"dynamic": "MD",
}

// RenderBuildInfo returns the contents of the build info file for req.
// The file defines conan_basic_setup(), which applies the configured MSVC runtime
// and C++ standard to the including project.
func RenderBuildInfo(req domain.GenerateRequest) string {
	var b strings.Builder
	b.WriteString("# Generated by kiln. Do not edit.\n\n")

	deps := make([]string, 0, len(req.Dependencies))
	for _, d := range req.Dependencies {
		deps = append(deps, d.String())
	}
	b.WriteString("set(CONAN_DEPENDENCIES " + quote(strings.Join(deps, ";")) + ")\n")
	b.WriteString("set(CONAN_SETTINGS_BUILD_TYPE " + quote(string(req.BuildType)) + ")\n")
	b.WriteString("set(CONAN_SETTINGS_COMPILER_RUNTIME " + quote(runtimeFlags[req.Runtime]) + ")\n")

	std := ""
	if n, err := strconv.Atoi(strings.TrimPrefix(req.CppStd, "gnu")); err == nil {
		std = strconv.Itoa(n)
	}
	b.WriteString("set(CONAN_CXX_STANDARD " + quote(std) + ")\n")
	b.WriteString("set(CONAN_CXX_EXTENSIONS " + onOff(strings.HasPrefix(req.CppStd, "gnu")) + ")\n")

	b.WriteString(`
macro(conan_basic_setup)
  if(MSVC AND CONAN_SETTINGS_COMPILER_RUNTIME)
    foreach(flag_var
        CMAKE_C_FLAGS CMAKE_C_FLAGS_DEBUG CMAKE_C_FLAGS_RELEASE
        CMAKE_C_FLAGS_RELWITHDEBINFO CMAKE_C_FLAGS_MINSIZEREL
        CMAKE_CXX_FLAGS CMAKE_CXX_FLAGS_DEBUG CMAKE_CXX_FLAGS_RELEASE
        CMAKE_CXX_FLAGS_RELWITHDEBINFO CMAKE_CXX_FLAGS_MINSIZEREL)
      string(REGEX REPLACE "/M[TD]d?" "" ${flag_var} "${${flag_var}}")
      set(${flag_var} "${${flag_var}} /${CONAN_SETTINGS_COMPILER_RUNTIME}")
    endforeach()
  endif()
  if(CONAN_CXX_STANDARD)
    set(CMAKE_CXX_STANDARD ${CONAN_CXX_STANDARD})
    set(CMAKE_CXX_STANDARD_REQUIRED ON)
    set(CMAKE_CXX_EXTENSIONS ${CONAN_CXX_EXTENSIONS})
  endif()
endmacro()
`)
	return b.String()
}

// WriteBuildInfo writes the build info file into the build directory of req.
func WriteBuildInfo(req domain.GenerateRequest) error {
	if err := os.MkdirAll(req.BuildDir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigureFailed.Error()), "path", req.BuildDir)
	}
	path := filepath.Join(req.BuildDir, BuildInfoFile)
	if err := os.WriteFile(path, []byte(RenderBuildInfo(req)), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigureFailed.Error()), "path", path)
	}
	return nil
}

func quote(s string) string {
	return strconv.Quote(s)
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
