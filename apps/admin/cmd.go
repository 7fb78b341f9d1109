package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/catalog"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
	"github.com/Powerhouse0784/Coaching-sub000/core/stats"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf        *core.Config
	logger      core.Logger
	out         io.Writer
	db          *sql.DB
	catalog     catalog.Repository
	progressSvc *progress.Service
	statsSvc    *stats.Service
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, version, redo, ...)")
	fmt.Fprintln(cli.out, "  stats -user USER_ID [-folder FOLDER_ID] - print the user's watch time and folder progress")
	fmt.Fprintln(cli.out, "  simulate -user USER_ID -video VIDEO_ID -watch DURATION - play a video and sync it like the web player")
	fmt.Fprintln(cli.out, "  mark -user USER_ID -video VIDEO_ID -completed=true|false - mark a video complete or incomplete")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx := context.Background()

	statsCmd := flag.NewFlagSet("stats", flag.ContinueOnError)
	statsUser := statsCmd.String("user", "", "The user's ID.")
	statsFolder := statsCmd.String("folder", "", "A folder ID; its progress is printed too.")

	simulateCmd := flag.NewFlagSet("simulate", flag.ContinueOnError)
	simulateUser := simulateCmd.String("user", "", "The user's ID.")
	simulateVideo := simulateCmd.String("video", "", "The video's ID.")
	simulateWatch := simulateCmd.Duration("watch", 0, "How long to play the video from the start.")
	simulateInterval := simulateCmd.Duration("interval", cli.conf.Tracking.SyncInterval, "Periodic sync interval.")

	markCmd := flag.NewFlagSet("mark", flag.ContinueOnError)
	markUser := markCmd.String("user", "", "The user's ID.")
	markVideo := markCmd.String("video", "", "The video's ID.")
	markCompleted := markCmd.Bool("completed", true, "Mark the video complete (true) or reset it (false).")

	for _, cmd := range []*flag.FlagSet{statsCmd, simulateCmd, markCmd} {
		cmd.SetOutput(cli.out)
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "stats":
		if err := statsCmd.Parse(args[2:]); err != nil {
			return err
		}
		*statsUser, *statsFolder = core.CleanString(*statsUser), core.CleanString(*statsFolder)
		if *statsUser == "" {
			statsCmd.Usage()
			return errHelp
		}
		return cli.stats(ctx, *statsUser, *statsFolder)

	case "simulate":
		if err := simulateCmd.Parse(args[2:]); err != nil {
			return err
		}
		*simulateUser, *simulateVideo = core.CleanString(*simulateUser), core.CleanString(*simulateVideo)
		if *simulateUser == "" || *simulateVideo == "" || *simulateWatch <= 0 || *simulateInterval <= 0 {
			simulateCmd.Usage()
			return errHelp
		}
		rec, err := cli.simulate(ctx, *simulateUser, *simulateVideo, *simulateWatch, *simulateInterval)
		if err != nil {
			return err
		}
		cli.printRecord(rec)
		return nil

	case "mark":
		if err := markCmd.Parse(args[2:]); err != nil {
			return err
		}
		*markUser, *markVideo = core.CleanString(*markUser), core.CleanString(*markVideo)
		if *markUser == "" || *markVideo == "" {
			markCmd.Usage()
			return errHelp
		}
		return cli.mark(ctx, *markUser, *markVideo, *markCompleted)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) stats(ctx context.Context, userID, folderID string) error {
	watch, err := cli.statsSvc.AccountWatchTime(ctx, userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "watch time: %dh %dm (%ds)\n", watch.Hours, watch.Minutes, watch.TotalSeconds)

	if folderID == "" {
		return nil
	}
	fs, err := cli.statsSvc.Folder(ctx, userID, folderID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "folder %s: %d/%d videos completed (%.0f%%), %ds of content\n",
		fs.FolderID, fs.CompletedCount, fs.VideoCount, fs.ProgressPercent, fs.TotalDurationSeconds)
	return nil
}

func (cli *commandLine) mark(ctx context.Context, userID, videoID string, completed bool) error {
	usr := core.Identity{ID: userID}
	var (
		rec progress.Record
		err error
	)
	if completed {
		rec, err = cli.progressSvc.MarkComplete(ctx, usr, videoID)
	} else {
		rec, err = cli.progressSvc.MarkIncomplete(ctx, usr, videoID)
	}
	if err != nil {
		return err
	}
	cli.printRecord(rec)
	return nil
}

func (cli *commandLine) printRecord(rec progress.Record) {
	fmt.Fprintf(cli.out, "%s/%s: %.0f%% watched, %ds, completed=%t, views=%d\n",
		rec.UserID, rec.VideoID, rec.WatchedPercentage, rec.WatchedSeconds, rec.Completed, rec.ViewCount)
}
