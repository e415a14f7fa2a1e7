package main

import (
	"github.com/spf13/cobra"

	"github.com/tatsh/tmu/cmd/tmu/commands"
	"github.com/tatsh/tmu/pkg/config"
)

var (
	configFile string
	debug      bool
)

func newRootCmd() *cobra.Command {
	opts := &commands.RootOpts{Config: &config.Config{}}
	rootCmd := &cobra.Command{
		Use:           "tmu",
		Short:         "Commands for a variety of least-effort tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context(), configFile)
			if err != nil {
				return err
			}
			*opts.Config = *cfg
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	rootCmd.AddGroup(
		&cobra.Group{ID: "strings", Title: "String Commands:"},
		&cobra.Group{ID: "data", Title: "Data Format Commands:"},
		&cobra.Group{ID: "media", Title: "Media Commands:"},
		&cobra.Group{ID: "archive", Title: "Archive Commands:"},
		&cobra.Group{ID: "git", Title: "Git and GitHub Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
		&cobra.Group{ID: "web", Title: "Web Commands:"},
		&cobra.Group{ID: "misc", Title: "Miscellaneous Commands:"},
	)
	rootCmd.AddCommand(
		// strings
		commands.NewSanitizeCmd(opts),
		commands.NewSlugifyCmd(opts),
		commands.NewUnderscorizeCmd(opts),
		commands.NewTrimCmd(opts),
		commands.NewUcwordsCmd(opts),
		commands.NewTitleCmd(opts),
		commands.NewFullwidthToASCIICmd(opts),
		commands.NewURLDecodeCmd(opts),
		commands.NewNetlocCmd(opts),
		commands.NewIsASCIICmd(opts),
		commands.NewIsBinCmd(opts),
		commands.NewUnix2WineCmd(opts),
		// data
		commands.NewJSONToYAMLCmd(opts),
		commands.NewYAMLToJSONCmd(opts),
		commands.NewPlistToJSONCmd(opts),
		commands.NewAddCDDATimesCmd(opts),
		commands.NewCDDBQueryCmd(opts),
		// media
		commands.NewFlactedCmd(opts),
		commands.NewRipCDCmd(opts),
		commands.NewWaitForDiscCmd(opts),
		commands.NewAudioToVideoCmd(opts),
		commands.NewHLGToSDRCmd(opts),
		commands.NewAddInfoJSONCmd(opts),
		commands.NewDisplayInfoJSONCmd(opts),
		commands.NewAudioFormatsCmd(opts),
		commands.NewArchiveDashcamCmd(opts),
		// archive
		commands.NewUnpack0dayCmd(opts),
		commands.NewKEEbookExCmd(opts),
		commands.NewExtractGOGCmd(opts),
		commands.NewVerifySFVCmd(opts),
		// git
		commands.NewGitOpenCmd(opts),
		commands.NewGitDefaultBranchCmd(opts),
		commands.NewMergeDependabotPRsCmd(opts),
		// system
		commands.NewCleanOldKernelsCmd(opts),
		commands.NewSlugRenameCmd(opts),
		commands.NewKillProcsCmd(opts),
		commands.NewMkWinePrefixCmd(opts),
		commands.NewPatchBundleCmd(opts),
		commands.NewUltraISOCmd(opts),
		// web
		commands.NewCheckBookmarksCmd(opts),
		commands.NewHTMLDirTreeCmd(opts),
		commands.NewWhereFromCmd(opts),
		commands.NewImgBBUploadCmd(opts),
		commands.NewChromeUACmd(opts),
		// misc
		commands.NewADPCmd(opts),
		commands.NewTodosCmd(opts),
	)
	return rootCmd
}
