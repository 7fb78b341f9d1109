package stats

import (
	"context"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
)

// FolderCompletionNotifier emails the user when a video completion completes its whole folder.
type FolderCompletionNotifier struct {
	stats  *Service
	logger core.Logger
	mailer core.EmailService
}

var _ progress.CompletionListener = (*FolderCompletionNotifier)(nil)

func NewFolderCompletionNotifier(svc *Service, mailer core.EmailService, logger core.Logger) *FolderCompletionNotifier {
	return &FolderCompletionNotifier{stats: svc, mailer: mailer, logger: logger}
}

func (n *FolderCompletionNotifier) VideoCompleted(ctx context.Context, usr core.Identity, rec progress.Record) {
	if usr.Email == "" {
		return
	}
	if err := n.notify(ctx, usr, rec); err != nil {
		n.logger.Error(err.Error(), err, usr)
	}
}

func (n *FolderCompletionNotifier) notify(ctx context.Context, usr core.Identity, rec progress.Record) error {
	video, err := n.stats.catalog.GetVideo(ctx, rec.VideoID)
	if err != nil {
		return errors.Wrap(err, "getting video")
	}
	folder, err := n.stats.catalog.GetFolder(ctx, video.FolderID)
	if err != nil {
		return errors.Wrap(err, "getting folder")
	}
	fs, err := n.stats.folderStats(ctx, usr.ID, folder)
	if err != nil {
		return errors.Wrap(err, "computing folder stats")
	}
	if !fs.Complete() {
		return nil
	}

	n.mailer.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "You completed " + folder.Name,
		TemplateName: "folder_completed",
		TemplateData: map[string]interface{}{
			"Name":       usr.Name,
			"FolderID":   folder.ID,
			"FolderName": folder.Name,
			"VideoCount": fs.VideoCount,
		},
	})
	return nil
}
