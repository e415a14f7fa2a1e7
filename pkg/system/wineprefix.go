package system

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultDPI is Windows' standard logical DPI.
const DefaultDPI = 96

// ErrPrefixExists is returned when the target prefix directory already
// exists.
var ErrPrefixExists = errors.New("prefix already exists")

// WindowsVersionTricks maps Windows version names to winetricks verbs.
var WindowsVersionTricks = map[string]string{
	"11":    "win10",
	"10":    "win10",
	"vista": "vista",
	"2k3":   "win2k3",
	"7":     "win7",
	"8":     "win8",
	"xp":    "winxp",
	"81":    "win81",
	// 32-bit only
	"2k": "win2k",
	"98": "win98",
	"95": "win95",
}

// WinePrefixOptions controls CreateWinePrefix.
type WinePrefixOptions struct {
	// Win32 creates a 32-bit prefix.
	Win32 bool
	// DPI sets HKCU\Control Panel\Desktop\LogPixels when not DefaultDPI.
	DPI int
	// DXVAVAAPI enables the VA-API backend for DXVA2.
	DXVAVAAPI bool
	// EAX enables EAX in DirectSound.
	EAX bool
	// GTK enables the GTK theme engine.
	GTK bool
	// NoXDG disables winemenubuilder so Wine cannot create XDG entries.
	NoXDG bool
	// WinRTDark enables the dark theme.
	WinRTDark bool
	// Sandbox adds the isolate_home and sandbox tricks.
	Sandbox bool
	// Tricks are extra winetricks verbs.
	Tricks []string
	// VD is the virtual desktop size, or "off".
	VD string
	// WindowsVersion is a key of WindowsVersionTricks. Defaults to xp.
	WindowsVersion string
	// PrefixRoot defaults to ~/.local/share/wineprefixes.
	PrefixRoot string
}

func (o *WinePrefixOptions) filteredTricks() []string {
	verbs := map[string]bool{}
	for _, v := range WindowsVersionTricks {
		verbs[v] = true
	}
	var out []string
	for _, t := range o.Tricks {
		if verbs[t] || len(t) > 3 && t[:3] == "vd=" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func wineEnv(target string, win32 bool) []string {
	env := []string{
		"DISPLAY=" + os.Getenv("DISPLAY"),
		"PATH=" + os.Getenv("PATH"),
		"WINEPREFIX=" + target,
		"XAUTHORITY=" + os.Getenv("XAUTHORITY"),
	}
	if win32 {
		arch := os.Getenv("WINEARCH")
		if arch == "" {
			arch = "win32"
		}
		env = append(env, "WINEARCH="+arch)
	}
	if esync := os.Getenv("WINEESYNC"); esync != "" {
		env = append(env, "WINEESYNC="+esync)
	}
	return env
}

func wineRegAdd(ctx context.Context, env []string, args ...string) error {
	cmd := exec.CommandContext(ctx, "wine", append([]string{"reg", "add"}, args...)...)
	cmd.Env = env
	zerolog.Ctx(ctx).Debug().Strs("args", cmd.Args).Msg("running")
	if err := cmd.Run(); err != nil {
		return errors.Errorf("adding registry value: %w", err)
	}
	return nil
}

// CreateWinePrefix creates a Wine prefix with custom settings. Requires Wine
// and winetricks. The prefix path is returned; the prefix must not already
// exist.
func CreateWinePrefix(ctx context.Context, prefixName string,
	opts *WinePrefixOptions) (string, error) {
	if opts == nil {
		opts = &WinePrefixOptions{}
	}
	logger := zerolog.Ctx(ctx)
	prefixRoot := opts.PrefixRoot
	if prefixRoot == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Errorf("finding home directory: %w", err)
		}
		prefixRoot = filepath.Join(home, ".local", "share", "wineprefixes")
	}
	if err := os.MkdirAll(prefixRoot, 0o755); err != nil {
		return "", errors.Errorf("creating %s: %w", prefixRoot, err)
	}
	target := filepath.Join(prefixRoot, prefixName)
	if _, err := os.Stat(target); err == nil {
		return "", errors.Errorf("prefix %s: %w", target, ErrPrefixExists)
	}
	if os.Getenv("DISPLAY") == "" || os.Getenv("XAUTHORITY") == "" {
		logger.Warn().Msg("Wine will likely fail to run since DISPLAY or XAUTHORITY " +
			"are not in the environment")
	}
	env := wineEnv(target, opts.Win32)
	if opts.DPI != 0 && opts.DPI != DefaultDPI {
		if err := wineRegAdd(ctx, env, `HKCU\Control Panel\Desktop`, "/t", "REG_DWORD",
			"/v", "LogPixels", "/d", fmt.Sprintf("%d", opts.DPI), "/f"); err != nil {
			return "", err
		}
	}
	if opts.DXVAVAAPI {
		if err := wineRegAdd(ctx, env, `HKCU\Software\Wine\DXVA2`, "/t", "REG_SZ",
			"/v", "backend", "/d", "va", "/f"); err != nil {
			return "", err
		}
	}
	if opts.EAX {
		if err := wineRegAdd(ctx, env, `HKCU\Software\Wine\DirectSound`, "/t", "REG_SZ",
			"/v", "EAXEnabled", "/d", "Y", "/f"); err != nil {
			return "", err
		}
	}
	if opts.GTK {
		if err := wineRegAdd(ctx, env, `HKCU\Software\Wine`, "/t", "REG_SZ",
			"/v", "ThemeEngine", "/d", "GTK", "/f"); err != nil {
			return "", err
		}
	}
	if opts.WinRTDark {
		for _, key := range []string{"AppsUseLightTheme", "SystemUsesLightTheme"} {
			if err := wineRegAdd(ctx, env,
				`HKCU\Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`,
				"/t", "REG_DWORD", "/v", key, "/d", "0", "/f"); err != nil {
				return "", err
			}
		}
	}
	if opts.NoXDG {
		if err := wineRegAdd(ctx, env, `HKCU\Software\Wine\DllOverrides`, "/t", "REG_SZ",
			"/v", "winemenubuilder.exe", "/f"); err != nil {
			return "", err
		}
	}
	winetricks, err := exec.LookPath("winetricks")
	if err != nil {
		return "", errors.Errorf("finding winetricks: %w", err)
	}
	windowsVersion := opts.WindowsVersion
	if windowsVersion == "" {
		windowsVersion = "xp"
	}
	versionTrick, ok := WindowsVersionTricks[windowsVersion]
	if !ok {
		return "", errors.Errorf("unknown Windows version %q", windowsVersion)
	}
	tricks := append(opts.filteredTricks(), versionTrick)
	if opts.Sandbox {
		tricks = append(tricks, "isolate_home", "sandbox")
	}
	if opts.VD != "" && opts.VD != "off" {
		tricks = append(tricks, "vd="+opts.VD)
	}
	seen := map[string]bool{}
	var unique []string
	for _, t := range tricks {
		if !seen[t] {
			seen[t] = true
			unique = append(unique, t)
		}
	}
	sort.Strings(unique)
	args := append([]string{"--force", "--country=US", "--unattended",
		"prefix=" + prefixName}, unique...)
	logger.Debug().Strs("args", args).Msg("running winetricks")
	cmd := exec.CommandContext(ctx, winetricks, args...)
	cmd.Env = append(os.Environ(), "WINEPREFIX="+target)
	if err := cmd.Run(); err != nil {
		// Winetricks returns non-zero even when it mostly succeeded.
		logger.Warn().Err(err).Msg("winetricks failed but it may have succeeded")
	}
	return target, nil
}
