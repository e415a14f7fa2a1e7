package commands

import (
	"fmt"
	"regexp"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/tatsh/tmu/pkg/cdda"
	"github.com/tatsh/tmu/pkg/media"
)

// NewFlactedCmd creates the flacted command, a metaflac front-end.
func NewFlactedCmd(opts *RootOpts) *cobra.Command {
	var (
		deleteAllBefore bool
		show            string
		tags            media.FLACTags
	)
	cmd := &cobra.Command{
		Use:     "flacted <file...>",
		Short:   "Set or show common FLAC tags",
		GroupID: "media",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if show != "" {
				for _, file := range args {
					value, err := media.ShowFLACTag(cmd.Context(), file, show)
					if err != nil {
						return err
					}
					if len(args) > 1 {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", file, value)
					} else {
						fmt.Fprintln(cmd.OutOrStdout(), value)
					}
				}
				return nil
			}
			if tags.Empty() && !deleteAllBefore {
				return errors.New("no tag options given")
			}
			return media.SetFLACTags(cmd.Context(), args, tags, deleteAllBefore)
		},
	}
	cmd.Flags().StringVarP(&tags.Album, "album", "A", "", "album name")
	cmd.Flags().StringVarP(&tags.Artist, "artist", "a", "", "artist name")
	cmd.Flags().StringVarP(&tags.Genre, "genre", "g", "", "genre")
	cmd.Flags().StringVarP(&tags.Picture, "picture", "p", "", "cover artwork to attach")
	cmd.Flags().StringVarP(&tags.Title, "title", "t", "", "track title")
	cmd.Flags().IntVarP(&tags.Track, "track", "T", 0, "track number")
	cmd.Flags().IntVarP(&tags.Year, "year", "y", 0, "year")
	cmd.Flags().BoolVarP(&deleteAllBefore, "delete-all-first", "D", false,
		"remove all tags before setting new values")
	cmd.Flags().StringVarP(&show, "show", "s", "", "show a tag instead of setting")
	return cmd
}

// NewRipCDCmd creates the ripcd command.
func NewRipCDCmd(opts *RootOpts) *cobra.Command {
	var (
		acceptFirst bool
		albumArtist string
		albumDir    string
		cddbHost    string
		neverSkip   int
		outputDir   string
		username    string
	)
	cmd := &cobra.Command{
		Use:     "ripcd",
		Short:   "Rip an audio disc to FLAC files",
		Long:    "Rip an audio disc to FLAC files. Requires cdparanoia and flac in PATH.",
		GroupID: "media",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			drive := "/dev/sr0"
			if len(args) == 1 {
				drive = args[0]
			}
			discID, err := cdda.DiscID(drive)
			if err != nil {
				return err
			}
			client := &cdda.CDDBClient{
				Host:             cddbHost,
				Username:         username,
				AcceptFirstMatch: acceptFirst,
			}
			if cfg := opts.Config.CDDB; cfg != nil {
				if client.Host == "" {
					client.Host = cfg.Host
				}
				if client.Username == "" {
					client.Username = cfg.Username
				}
			}
			result, err := client.Query(cmd.Context(), discID)
			if err != nil {
				return err
			}
			progress, _ := pterm.DefaultProgressbar.WithTotal(len(result.Tracks)).
				WithTitle("Ripping").Start()
			err = cdda.Rip(cmd.Context(), drive, result, &cdda.RipOptions{
				AlbumArtist: albumArtist,
				AlbumDir:    albumDir,
				OutputDir:   outputDir,
				NeverSkip:   neverSkip,
				StderrCallback: func(line string) {
					if progress != nil {
						progress.UpdateTitle(line)
					}
				},
			})
			if progress != nil {
				_, _ = progress.Stop()
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&acceptFirst, "accept-first-cddb-match", "M", false,
		"accept the first CDDB match when there are several")
	cmd.Flags().StringVar(&albumArtist, "album-artist", "", "album artist override")
	cmd.Flags().StringVar(&albumDir, "album-dir", "",
		"album directory name, defaults to artist-album-year")
	cmd.Flags().StringVar(&cddbHost, "cddb-host", "", "CDDB host")
	cmd.Flags().IntVar(&neverSkip, "never-skip", 5, "passed to cdparanoia's --never-skip option")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "",
		"parent directory for the album directory")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username for CDDB")
	return cmd
}

// NewWaitForDiscCmd creates the wait-for-disc command.
func NewWaitForDiscCmd(opts *RootOpts) *cobra.Command {
	var waitTime float64
	cmd := &cobra.Command{
		Use:     "wait-for-disc <drive>",
		Short:   "Wait for a disc to be ready in a drive",
		GroupID: "media",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cdda.WaitForDisc(cmd.Context(), args[0],
				time.Duration(waitTime*float64(time.Second)))
		},
	}
	cmd.Flags().Float64VarP(&waitTime, "wait-time", "w", 1.0, "polling interval in seconds")
	return cmd
}

// NewAudioToVideoCmd creates the audio2vid command.
func NewAudioToVideoCmd(opts *RootOpts) *cobra.Command {
	var svOpts media.StaticTextVideoOptions
	cmd := &cobra.Command{
		Use:     "audio2vid <audio-file> <text>",
		Short:   "Create a static text video from an audio file",
		GroupID: "media",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := media.StaticTextVideo(cmd.Context(), args[0], args[1], &svOpts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&svOpts.Font, "font", "f", "Roboto", "font to use")
	cmd.Flags().BoolVarP(&svOpts.NVENC, "nvenc", "n", false, "use NVENC")
	cmd.Flags().BoolVarP(&svOpts.VideoToolbox, "videotoolbox", "V", false, "use VideoToolbox")
	return cmd
}

// NewHLGToSDRCmd creates the hlg2sdr command.
func NewHLGToSDRCmd(opts *RootOpts) *cobra.Command {
	var hlgOpts media.HLGToSDROptions
	cmd := &cobra.Command{
		Use:     "hlg2sdr <file>",
		Short:   "Tone map HLG video to SDR",
		GroupID: "media",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := media.HLGToSDR(cmd.Context(), args[0], &hlgOpts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVar(&hlgOpts.CRF, "crf", 20, "constant rate factor")
	cmd.Flags().StringVar(&hlgOpts.Codec, "codec", "", "output video codec")
	cmd.Flags().StringVarP(&hlgOpts.OutputFile, "output", "o", "",
		"output file, defaults to an -sdr suffix")
	return cmd
}

// NewAddInfoJSONCmd creates the add-info-json command.
func NewAddInfoJSONCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "add-info-json <file...>",
		Short:   "Attach yt-dlp info.json files to their media files",
		GroupID: "media",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, file := range args {
				if err := media.AddInfoJSON(cmd.Context(), file, ""); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// NewDisplayInfoJSONCmd creates the display-info-json command.
func NewDisplayInfoJSONCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "display-info-json <file>",
		Short:   "Print the info.json attached to a media file",
		GroupID: "media",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := media.InfoJSON(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}
}

// NewAudioFormatsCmd creates the audio-formats command.
func NewAudioFormatsCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "audio-formats <device>",
		Short:   "Probe supported input formats and sample rates with ffmpeg",
		GroupID: "media",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			supported, err := media.SupportedAudioInputFormats(cmd.Context(), args[0], nil, nil)
			if err != nil {
				return err
			}
			for _, fr := range supported {
				fmt.Fprintf(cmd.OutOrStdout(), "%s @ %d\n", fr.Format, fr.Rate)
			}
			return nil
		},
	}
}

// NewArchiveDashcamCmd creates the archive-dashcam command.
func NewArchiveDashcamCmd(opts *RootOpts) *cobra.Command {
	dcOpts := media.DefaultDashcamOptions()
	var (
		matchRegexp string
		noFixGroups bool
		noHWAccel   bool
		noRearCrop  bool
		noSetPTS    bool
	)
	cmd := &cobra.Command{
		Use:     "archive-dashcam <front-dir> <rear-dir> [output-dir]",
		Short:   "Batch encode dashcam footage, merging rear and front views",
		GroupID: "media",
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputDir := "."
			if len(args) == 3 {
				outputDir = args[2]
			}
			if matchRegexp != "" {
				pattern, err := regexp.Compile(matchRegexp)
				if err != nil {
					return errors.Errorf("compiling match pattern: %w", err)
				}
				dcOpts.TimestampPattern = pattern
			}
			dcOpts.AllowGroupDiscrepancyResolution = !noFixGroups
			if noHWAccel {
				dcOpts.HWAccel = ""
			}
			if noRearCrop {
				dcOpts.RearCrop = ""
			}
			if noSetPTS {
				dcOpts.SetPTS = ""
			}
			return media.ArchiveDashcamFootage(cmd.Context(), args[0], args[1], outputDir, dcOpts)
		},
	}
	cmd.Flags().IntVar(&dcOpts.ClipLength, "clip-length", dcOpts.ClipLength,
		"clip length in minutes")
	cmd.Flags().StringVar(&dcOpts.HWAccel, "hwaccel", dcOpts.HWAccel, "-hwaccel string for ffmpeg")
	cmd.Flags().IntVar(&dcOpts.Level, "level", dcOpts.Level, "level (HEVC)")
	cmd.Flags().StringVar(&matchRegexp, "match-regexp", "",
		"timestamp pattern for input file names")
	cmd.Flags().BoolVar(&noFixGroups, "no-fix-groups", false,
		"disable group discrepancy resolution")
	cmd.Flags().BoolVar(&noHWAccel, "no-hwaccel", false, "disable hardware decoding")
	cmd.Flags().BoolVar(&noRearCrop, "no-rear-crop", false, "disable rear video cropping")
	cmd.Flags().BoolVar(&noSetPTS, "no-setpts", false, "disable use of setpts")
	cmd.Flags().StringVar(&dcOpts.Preset, "preset", dcOpts.Preset, "output preset")
	cmd.Flags().StringVar(&dcOpts.RearCrop, "rear-crop", dcOpts.RearCrop,
		"crop string for the rear camera view")
	cmd.Flags().Float64Var(&dcOpts.RearViewScaleDivisor, "rear-view-scale-divisor",
		dcOpts.RearViewScaleDivisor, "scaling divisor for the rear view")
	cmd.Flags().StringVar(&dcOpts.SetPTS, "setpts", dcOpts.SetPTS, "setpts= string")
	cmd.Flags().StringVarP(&dcOpts.TempDir, "temp-dir", "T", "",
		"temporary directory for processing")
	cmd.Flags().StringVar(&dcOpts.Tier, "tier", dcOpts.Tier, "tier (HEVC)")
	cmd.Flags().StringVar(&dcOpts.VideoBitrate, "video-bitrate", dcOpts.VideoBitrate,
		"video bitrate")
	cmd.Flags().StringVar(&dcOpts.VideoDecoder, "video-decoder", dcOpts.VideoDecoder,
		"video decoder")
	cmd.Flags().StringVar(&dcOpts.VideoEncoder, "video-encoder", dcOpts.VideoEncoder,
		"video encoder")
	cmd.Flags().StringVar(&dcOpts.VideoMaxBitrate, "video-max-bitrate", dcOpts.VideoMaxBitrate,
		"maximum video bitrate")
	cmd.Flags().BoolVarP(&dcOpts.Overwrite, "overwrite", "O", false, "overwrite existing files")
	return cmd
}
