package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sys/unix"

	"github.com/tatsh/tmu/pkg/gentoo"
	"github.com/tatsh/tmu/pkg/system"
	"github.com/tatsh/tmu/pkg/ultraiso"
)

// NewCleanOldKernelsCmd creates the clean-old-kernels command.
func NewCleanOldKernelsCmd(opts *RootOpts) *cobra.Command {
	var (
		activeKernelName string
		modulesPath      string
		quiet            bool
	)
	cmd := &cobra.Command{
		Use:     "clean-old-kernels [path]",
		Short:   "Remove inactive kernel sources and modules",
		GroupID: "system",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			removed, err := gentoo.CleanOldKernels(*zerolog.Ctx(cmd.Context()), path,
				modulesPath, activeKernelName)
			if err != nil {
				return err
			}
			if !quiet {
				for _, p := range removed {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&activeKernelName, "active-kernel-name",
		gentoo.DefaultActiveKernelName, "name of the active kernel symlink")
	cmd.Flags().StringVarP(&modulesPath, "modules-path", "m",
		gentoo.DefaultModulesPath, "location of kernel modules")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "prevent output")
	return cmd
}

// NewSlugRenameCmd creates the slug-rename command.
func NewSlugRenameCmd(opts *RootOpts) *cobra.Command {
	var (
		noLower bool
		verbose bool
	)
	cmd := &cobra.Command{
		Use:     "slug-rename <path...>",
		Short:   "Rename files to slug versions of their names",
		GroupID: "system",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				target, err := system.SlugRename(name, noLower)
				if err != nil {
					return err
				}
				if verbose {
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", name, target)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noLower, "no-lower", false, "disable lowercasing")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	return cmd
}

// NewKillProcsCmd creates the kill-procs command.
func NewKillProcsCmd(opts *RootOpts) *cobra.Command {
	var (
		force     bool
		gamescope bool
		wait      time.Duration
		wine      bool
	)
	cmd := &cobra.Command{
		Use:     "kill-procs [name...]",
		Short:   "Terminate processes by command name",
		GroupID: "system",
		RunE: func(cmd *cobra.Command, args []string) error {
			if gamescope {
				if err := system.KillGamescope(); err != nil {
					return err
				}
			}
			if wine {
				if err := system.KillWine(); err != nil {
					return err
				}
			}
			if len(args) == 0 && !gamescope && !wine {
				return errors.New("no process names given")
			}
			for _, name := range args {
				remaining, err := system.KillProcessesByName(name, unix.SIGTERM, wait, force)
				if err != nil {
					return err
				}
				for _, pid := range remaining {
					fmt.Fprintf(cmd.ErrOrStderr(), "%d still alive\n", pid)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false,
		"SIGKILL processes still alive after the wait")
	cmd.Flags().BoolVar(&gamescope, "gamescope", false, "kill gamescope processes")
	cmd.Flags().DurationVarP(&wait, "wait", "w", 0, "wait this long before re-checking")
	cmd.Flags().BoolVar(&wine, "wine", false, "kill Wine processes")
	return cmd
}

// NewMkWinePrefixCmd creates the mkwineprefix command.
func NewMkWinePrefixCmd(opts *RootOpts) *cobra.Command {
	wpOpts := &system.WinePrefixOptions{}
	cmd := &cobra.Command{
		Use:     "mkwineprefix <name>",
		Short:   "Create a Wine prefix with custom settings",
		Long: `Create a Wine prefix with custom settings. Requires Wine and winetricks.

This should be used with eval: eval $(tmu mkwineprefix ...)`,
		GroupID: "system",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if wpOpts.PrefixRoot == "" {
				wpOpts.PrefixRoot = opts.Config.WinePrefixRoot
			}
			target, err := system.CreateWinePrefix(cmd.Context(), args[0], wpOpts)
			if err != nil {
				return err
			}
			quoted := shellQuote("WINEPREFIX=" + target)
			fmt.Fprintf(cmd.ErrOrStderr(),
				"Run `export WINEPREFIX=%s` before running wine or use env:\n\n"+
					"env %s wine ...\n\nIf you ran this with eval, your shell is ready.\n",
				target, quoted)
			fmt.Fprintf(cmd.OutOrStdout(), "export %s\n", quoted)
			fmt.Fprintf(cmd.OutOrStdout(), "export PS1=\"%s🍷$PS1\"\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&wpOpts.Win32, "32", false, "use a 32-bit prefix")
	cmd.Flags().IntVar(&wpOpts.DPI, "dpi", system.DefaultDPI, "logical DPI")
	cmd.Flags().BoolVar(&wpOpts.DXVAVAAPI, "dxva-vaapi", false,
		"enable the VA-API backend for DXVA2")
	cmd.Flags().BoolVar(&wpOpts.EAX, "eax", false, "enable EAX in DirectSound")
	cmd.Flags().BoolVar(&wpOpts.GTK, "gtk", false, "enable the GTK theme engine")
	cmd.Flags().BoolVar(&wpOpts.NoXDG, "no-xdg", false, "disable winemenubuilder.exe")
	cmd.Flags().BoolVar(&wpOpts.WinRTDark, "winrt-dark", false, "enable the dark theme")
	cmd.Flags().BoolVarP(&wpOpts.Sandbox, "sandbox", "S", false, "sandbox the prefix")
	cmd.Flags().StringArrayVarP(&wpOpts.Tricks, "trick", "T", nil,
		"add an argument for winetricks")
	cmd.Flags().StringVar(&wpOpts.VD, "vd", "off", "virtual desktop size, e.g. 1024x768")
	cmd.Flags().StringVarP(&wpOpts.WindowsVersion, "windows-version", "V", "xp",
		"Windows version")
	cmd.Flags().StringVarP(&wpOpts.PrefixRoot, "prefix-root", "r", "", "prefix root")
	return cmd
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'\\$`!*?[]{}();<>|&~#") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// NewPatchBundleCmd creates the patch-bundle command.
func NewPatchBundleCmd(opts *RootOpts) *cobra.Command {
	var (
		envVars []string
		retina  bool
	)
	cmd := &cobra.Command{
		Use:     "patch-bundle <bundle>",
		Short:   "Patch a macOS bundle's Info.plist file",
		GroupID: "system",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := map[string]any{}
			if len(envVars) > 0 {
				env := map[string]any{}
				for _, pair := range envVars {
					key, value, found := strings.Cut(pair, "=")
					if !found {
						return errors.Errorf("invalid KEY=VALUE pair %q", pair)
					}
					env[key] = value
				}
				data["LSEnvironment"] = env
			}
			if retina {
				data["NSHighResolutionCapable"] = true
			}
			if len(data) == 0 {
				return errors.New("nothing to patch")
			}
			return system.PatchBundleInfoPlist(args[0], data)
		},
	}
	cmd.Flags().StringArrayVarP(&envVars, "env-var", "E", nil,
		"environment variable to set, KEY=VALUE")
	cmd.Flags().BoolVarP(&retina, "retina", "r", false, "force Retina support")
	return cmd
}

// NewUltraISOCmd creates the ultraiso command.
func NewUltraISOCmd(opts *RootOpts) *cobra.Command {
	uiOpts := &ultraiso.Options{}
	var prefix string
	cmd := &cobra.Command{
		Use:     "ultraiso",
		Short:   "Run UltraISO, via Wine off Windows",
		GroupID: "system",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ultraiso.Run(cmd.Context(), prefix, uiOpts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&prefix, "prefix", "", "Wine prefix to use")
	flags.StringVar(&uiOpts.Cmd, "cmd", "", "read arguments from a file")
	flags.StringVarP(&uiOpts.Input, "input", "i", "", "input ISO image")
	flags.StringVarP(&uiOpts.Output, "output", "o", "", "output ISO image")
	flags.StringArrayVarP(&uiOpts.AddFiles, "file", "f", nil, "add a file")
	flags.StringArrayVar(&uiOpts.AddDirs, "dir", nil, "add a directory")
	flags.StringVar(&uiOpts.AppID, "appid", "", "application ID")
	flags.StringVar(&uiOpts.Preparer, "preparer", "", "preparer")
	flags.StringVar(&uiOpts.Publisher, "publisher", "", "publisher")
	flags.StringVar(&uiOpts.SysID, "sysid", "", "system ID")
	flags.StringVar(&uiOpts.Volume, "volume", "", "volume label")
	flags.IntVar(&uiOpts.VolSet, "volset", 0, "volume set ID")
	flags.BoolVar(&uiOpts.ILong, "ilong", false, "long filenames for ISO 9660, up to 31 chars")
	flags.BoolVar(&uiOpts.IMax, "imax", false, "max filenames for ISO 9660, up to 207 chars")
	flags.BoolVar(&uiOpts.Lowercase, "lowercase", false, "allow lowercase letters")
	flags.BoolVar(&uiOpts.VerNum, "vernum", false, "include file version numbers")
	flags.BoolVar(&uiOpts.HFS, "hfs", false, "create an Apple HFS volume")
	flags.BoolVar(&uiOpts.JLong, "jlong", false, "long filenames for Joliet, up to 103 chars")
	flags.BoolVar(&uiOpts.Joliet, "joliet", false, "create a Joliet volume")
	flags.BoolVar(&uiOpts.RockRidge, "rockridge", false, "create a RockRidge volume")
	flags.BoolVar(&uiOpts.UDF, "udf", false, "create a UDF volume")
	flags.BoolVar(&uiOpts.UDFDVD, "udfdvd", false, "create a UDF DVD image")
	flags.StringVar(&uiOpts.BootFile, "bootfile", "", "set boot file")
	flags.BoolVar(&uiOpts.BootInfoTable, "bootinfotable", false,
		"generate a boot information table in the boot file")
	flags.BoolVar(&uiOpts.Optimize, "optimize", false, "optimise by coding same files only once")
	flags.StringVarP(&uiOpts.Chdir, "chdir", "c", "", "change current directory in the image")
	flags.StringVar(&uiOpts.NewDir, "newdir", "", "create a new directory")
	flags.StringVarP(&uiOpts.RmDir, "rmdir", "r", "", "remove a file or folder from the image")
	flags.StringVar(&uiOpts.AHide, "ahide", "", "set advanced hidden attribute")
	flags.StringVar(&uiOpts.Hide, "hide", "", "set hidden attribute")
	flags.IntVar(&uiOpts.PN, "pn", 0, "set file priority, 1 to 9")
	flags.StringVar(&uiOpts.Bin2ISO, "bin2iso", "", "convert a BIN image to ISO")
	flags.StringVar(&uiOpts.DMG2ISO, "dmg2iso", "", "convert a DMG image to ISO")
	flags.StringVar(&uiOpts.Bin2ISZ, "bin2isz", "", "compress a BIN image to ISZ")
	flags.IntVar(&uiOpts.Compress, "compress", 0, "compression level, 1 to 16")
	flags.IntVar(&uiOpts.Encrypt, "encrypt", 0, "encryption method, 1 to 3")
	flags.StringVar(&uiOpts.Password, "password", "", "ISZ password")
	flags.IntVar(&uiOpts.Split, "split", 0, "segment size in bytes")
	flags.StringVar(&uiOpts.Extract, "extract", "", "extract the image to a directory")
	flags.StringVar(&uiOpts.Get, "get", "", "extract a single file or folder")
	flags.StringVar(&uiOpts.List, "list", "", "write a file listing to a file")
	return cmd
}
