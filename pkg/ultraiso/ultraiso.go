// Package ultraiso runs UltraISO inside a Wine prefix.
package ultraiso

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/tatsh/tmu/pkg/stringutil"
)

// minArguments is the smallest useful argument vector: wine, the executable
// and -silent plus at least one option.
const minArguments = 4

// ErrInsufficientArgs is returned when no options that would make UltraISO
// do anything were given.
var ErrInsufficientArgs = errors.New("insufficient amount of arguments")

// Options mirrors UltraISO's command line. String and path fields are
// skipped when empty, numeric fields when zero. On non-Windows platforms
// path-taking options are converted to Wine paths automatically.
type Options struct {
	// Cmd is a file to read command line arguments from. When set all other
	// options are ignored.
	Cmd string
	// Input image.
	Input string
	// Output image.
	Output string
	// AddFiles are files to add to the image.
	AddFiles []string
	// AddDirs are directories to add to the image.
	AddDirs []string

	AppID     string
	Preparer  string
	Publisher string
	SysID     string
	Volume    string
	VolSet    int

	ILong     bool
	IMax      bool
	Lowercase bool
	VerNum    bool
	HFS       bool
	JLong     bool
	Joliet    bool
	RockRidge bool
	UDF       bool
	UDFDVD    bool

	BootFile      string
	BootInfoTable bool
	Optimize      bool

	Chdir  string
	NewDir string
	RmDir  string
	AHide  string
	Hide   string
	// PN sets the priority of a file or folder, 1 to 9.
	PN int

	Bin2ISO string
	DMG2ISO string
	Bin2ISZ string
	// Compress is the ISZ compression level, 1 to 16.
	Compress int
	// Encrypt is the ISZ encryption method, 1 to 3.
	Encrypt  int
	Password string
	// Split is the segment size in bytes.
	Split int

	Extract string
	Get     string
	List    string
}

func toWinePath(s string) string {
	if runtime.GOOS == "windows" {
		return s
	}
	return stringutil.UnixPathToWine(s)
}

// FindExecutable locates UltraISO.exe under the prefix's drive_c.
func FindExecutable(prefix string) (string, error) {
	root := filepath.Join(prefix, "drive_c")
	if runtime.GOOS == "windows" {
		root = `C:\`
	}
	for _, programFiles := range []string{"Program Files", "Program Files (x86)"} {
		exe := filepath.Join(root, programFiles, "UltraISO", "UltraISO.exe")
		if _, err := os.Stat(exe); err == nil {
			return exe, nil
		}
	}
	return "", errors.Errorf("UltraISO.exe not found under %s", prefix)
}

// args builds the full argument vector including the wine and executable
// parts.
func (o *Options) args(exe string) ([]string, error) {
	var out []string
	if runtime.GOOS != "windows" {
		out = append(out, "wine")
	}
	out = append(out, exe, "-silent")
	if o.Cmd != "" {
		out = append(out, "-cmd", toWinePath(o.Cmd))
	} else {
		for _, pair := range []struct{ flag, value string }{
			{"-in", o.Input}, {"-out", o.Output},
		} {
			if pair.value != "" {
				out = append(out, pair.flag, toWinePath(pair.value))
			}
		}
		for _, file := range o.AddFiles {
			out = append(out, "-file", toWinePath(file))
		}
		for _, dir := range o.AddDirs {
			out = append(out, "-directory", dir)
		}
		for _, flag := range []struct {
			name string
			set  bool
		}{
			{"bootinfotable", o.BootInfoTable},
			{"hfs", o.HFS},
			{"ilong", o.ILong},
			{"imax", o.IMax},
			{"jlong", o.JLong},
			{"joliet", o.Joliet},
			{"lowercase", o.Lowercase},
			{"optimize", o.Optimize},
			{"rockridge", o.RockRidge},
			{"udf", o.UDF},
			{"udfdvd", o.UDFDVD},
			{"vernum", o.VerNum},
		} {
			if flag.set {
				out = append(out, "-"+flag.name)
			}
		}
		for _, pair := range []struct{ flag, value string }{
			{"-bootfile", o.BootFile}, {"-bin2iso", o.Bin2ISO},
			{"-dmg2iso", o.DMG2ISO}, {"-bin2isz", o.Bin2ISZ},
		} {
			if pair.value != "" {
				out = append(out, pair.flag, toWinePath(pair.value))
			}
		}
		for _, pair := range []struct{ flag, value string }{
			{"-appid", o.AppID}, {"-preparer", o.Preparer}, {"-publisher", o.Publisher},
			{"-sysid", o.SysID}, {"-volume", o.Volume}, {"-chdir", o.Chdir},
			{"-newdir", o.NewDir}, {"-rmdir", o.RmDir}, {"-ahide", o.AHide},
			{"-hide", o.Hide}, {"-password", o.Password}, {"-extract", o.Extract},
			{"-get", o.Get}, {"-list", o.List},
		} {
			if pair.value != "" {
				out = append(out, pair.flag, pair.value)
			}
		}
		for _, pair := range []struct {
			flag  string
			value int
		}{
			{"-volset", o.VolSet}, {"-compress", o.Compress}, {"-encrypt", o.Encrypt},
			{"-split", o.Split}, {"-pn", o.PN},
		} {
			if pair.value != 0 {
				out = append(out, pair.flag, strconv.Itoa(pair.value))
			}
		}
	}
	min := minArguments
	if runtime.GOOS == "windows" {
		min--
	}
	if len(out) < min {
		return nil, errors.WithStack(ErrInsufficientArgs)
	}
	return out, nil
}

// Run runs UltraISO inside the Wine prefix. Despite -silent always being
// passed, windows requiring interaction may still appear.
func Run(ctx context.Context, prefix string, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	if prefix == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Errorf("finding home directory: %w", err)
		}
		prefix = filepath.Join(home, ".local", "share", "wineprefixes", "ultraiso")
	}
	exe, err := FindExecutable(prefix)
	if err != nil {
		return err
	}
	args, err := opts.args(exe)
	if err != nil {
		return err
	}
	logger := zerolog.Ctx(ctx)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if runtime.GOOS != "windows" {
		if os.Getenv("DISPLAY") == "" || os.Getenv("XAUTHORITY") == "" {
			logger.Warn().Msg("UltraISO.exe will likely fail to run since DISPLAY or " +
				"XAUTHORITY are not in the environment")
		}
		cmd.Env = []string{
			"WINEPREFIX=" + prefix,
			"HOME=" + os.Getenv("HOME"),
			"DISPLAY=" + os.Getenv("DISPLAY"),
			"XAUTHORITY=" + os.Getenv("XAUTHORITY"),
		}
	}
	logger.Debug().Strs("args", args).Msg("running UltraISO")
	if err := cmd.Run(); err != nil {
		return errors.Errorf("running UltraISO: %w", err)
	}
	return nil
}
