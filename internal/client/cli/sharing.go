package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/spillway/internal/client/models"
	"github.com/dmitrijs2005/spillway/internal/timex"
)

// nowFn is the clock used for share expiry dates.
var nowFn = time.Now

// Shares lists shares the caller created, or the shares of one video when
// videoID is set.
func (a *App) Shares(ctx context.Context, videoID string) error {
	if videoID != "" {
		r := a.Sharing.SharesForVideo(ctx, videoID)
		if err := check(r); err != nil {
			return err
		}
		renderShares(a.out, "Shares of "+videoID, r.Value)
		return nil
	}

	r := a.Sharing.MyCreatedShares(ctx)
	if err := check(r); err != nil {
		return err
	}
	renderShares(a.out, "Shared by me", r.Value)
	return nil
}

func (a *App) SharedWithMe(ctx context.Context) error {
	r := a.Sharing.SharedWithMe(ctx)
	if err := check(r); err != nil {
		return err
	}
	renderShares(a.out, "Shared with me", r.Value)
	return nil
}

// ShareVideo prompts for the recipient, permission and an optional lifetime
// in days.
func (a *App) ShareVideo(ctx context.Context, videoID string) error {
	var err error
	if videoID == "" {
		if videoID, err = getSimpleText(a.reader, "Video id", a.out); err != nil {
			return err
		}
	}
	user, err := getSimpleText(a.reader, "Share with (username)", a.out)
	if err != nil {
		return err
	}
	if videoID == "" || user == "" {
		return errors.New("video id and username are required")
	}

	perm, err := getSimpleText(a.reader, "Permission: READ, MODIFY or ADMIN [READ]", a.out)
	if err != nil {
		return err
	}
	permission, err := parsePermission(perm)
	if err != nil {
		return err
	}

	days, err := GetOptionalInt(a.reader, "Expires in days", a.out)
	if err != nil {
		return err
	}

	req := models.ShareRequest{VideoID: videoID, SharedWithUsername: user, Permission: permission}
	if days != nil && *days > 0 {
		exp := timex.LocalDateTime{Time: nowFn().Add(time.Duration(*days) * 24 * time.Hour)}
		req.ExpiresAt = &exp
	}

	r := a.Sharing.ShareVideo(ctx, req)
	if err := check(r); err != nil {
		return err
	}
	success(a.out, "Shared %s with %s %s", videoID, user, idStyle.Render(r.Value.ID))
	return nil
}

func (a *App) RevokeShare(ctx context.Context, id string) error {
	r := a.Sharing.RevokeShare(ctx, id)
	if err := check(r); err != nil {
		return err
	}
	success(a.out, "Revoked share %s", id)
	return nil
}

func parsePermission(s string) (models.SharePermission, error) {
	switch p := models.SharePermission(strings.ToUpper(strings.TrimSpace(s))); p {
	case "":
		return models.PermissionRead, nil
	case models.PermissionRead, models.PermissionModify, models.PermissionAdmin:
		return p, nil
	default:
		return "", fmt.Errorf("unknown permission %q", s)
	}
}
