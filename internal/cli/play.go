package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/echoes/internal/errmsg"
	"github.com/llehouerou/echoes/internal/icons"
	"github.com/llehouerou/echoes/internal/mpris"
	"github.com/llehouerou/echoes/internal/notify"
	"github.com/llehouerou/echoes/internal/playback"
	"github.com/llehouerou/echoes/internal/player"
	"github.com/llehouerou/echoes/internal/playlist"
	"github.com/llehouerou/echoes/internal/stderr"
	"github.com/llehouerou/echoes/internal/ui/nowplaying"
)

var (
	playQueue   string
	playStart   int
	playShuffle bool
	playRepeat  string
)

var playCmd = &cobra.Command{
	Use:   "play <track-id>",
	Short: "Play a track, optionally within a queue",
	Long: `Play a track and open the now-playing view.

Examples:
  echoes play 42                      # Play track 42 alone
  echoes play 42 --queue 40,41,42,43  # Play 42 within a queue
  echoes play 42 --queue 40,41 --start 1
  echoes play 42 --queue 40,41,43 --shuffle --repeat all`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playQueue, "queue", "", "comma separated track ids forming the queue")
	playCmd.Flags().IntVar(&playStart, "start", 0, "queue position to start from")
	playCmd.Flags().BoolVar(&playShuffle, "shuffle", false, "enable shuffle")
	playCmd.Flags().StringVar(&playRepeat, "repeat", "off", "repeat mode: off, all, one")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	id, err := ParseID(args[0])
	if err != nil {
		return err
	}
	queue, err := ParseIDs(playQueue)
	if err != nil {
		return err
	}
	repeat, err := parseRepeat(playRepeat)
	if err != nil {
		return err
	}

	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()
	if err := requireToken(store); err != nil {
		return err
	}

	log := zap.L()
	// Started before the speaker so ALSA output on shutdown is captured too.
	if err := stderr.Start(log.Named("native")); err != nil {
		log.Warn("stderr capture unavailable", zap.Error(err))
	}
	defer stderr.Stop()

	opts := playback.DefaultOptions()
	opts.Logger = log.Named("playback")
	opts.InitialVolume = cfg.Volume()
	opts.TapBackThreshold = cfg.TapBackThreshold()
	opts.MaxShuffleRerolls = cfg.MaxShuffleRerolls()

	svc := playback.New(player.NewStream(nil, log.Named("player")), newClient(store), opts)
	defer svc.Close()
	svc.SetShuffle(playShuffle)
	svc.SetRepeatMode(repeat)

	if adapter, err := mpris.New(svc, log.Named("mpris")); err != nil {
		log.Warn("mpris unavailable", zap.Error(err))
	} else {
		defer adapter.Close()
	}

	if cfg.Notifications {
		watchTracks(svc, log.Named("notify"))
	}

	icons.Init(cfg.Icons)
	model := nowplaying.New(ctx, svc)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	playOpts := playback.PlayOptions{}
	if len(queue) > 0 {
		playOpts.Queue = lo.ToAnySlice(queue)
	}
	if cmd.Flags().Changed("start") {
		playOpts.StartIndex = playback.StartAt(playStart)
	}
	go func() {
		// Load failures land in the snapshot; only auth errors come back.
		if err := svc.Play(ctx, id, playOpts); err != nil {
			p.Send(nowplaying.ActionResultMsg{Op: errmsg.OpQueueReplace, Err: err})
		}
	}()

	final, err := p.Run()
	if err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return fmt.Errorf("run view: %w", err)
	}
	if m, ok := final.(*nowplaying.Model); ok && m.AuthFailed() {
		return expireSession(store)
	}
	return nil
}

// watchTracks shows a desktop notification for every new track until the
// service closes.
func watchTracks(svc playback.Service, log *zap.Logger) {
	n, err := notify.New()
	if err != nil {
		log.Warn("notifications unavailable", zap.Error(err))
		return
	}
	go notify.Watch(svc.Subscribe(), n, log)
}

func parseRepeat(s string) (playlist.RepeatMode, error) {
	switch s {
	case "off", "":
		return playlist.RepeatOff, nil
	case "all":
		return playlist.RepeatAll, nil
	case "one":
		return playlist.RepeatOne, nil
	}
	return playlist.RepeatOff, fmt.Errorf("invalid repeat mode %q (want off, all or one)", s)
}
