package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/maheshrc27/content-compass/internal/repository"
)

const maxAvatarSize = 5 << 20

var avatarTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
}

type UserService interface {
	UploadAvatar(ctx context.Context, uid string, file *multipart.FileHeader) (string, error)
}

type userService struct {
	store ObjectStore
}

func NewUserService(store ObjectStore) UserService {
	return &userService{
		store: store,
	}
}

// UploadAvatar checks the file by its content, not its name, and returns the
// public URL of the stored image.
func (s *userService) UploadAvatar(ctx context.Context, uid string, file *multipart.FileHeader) (string, error) {
	if file.Size > maxAvatarSize {
		return "", fmt.Errorf("%w: avatar must be at most 5MB", ErrUnsupportedFile)
	}

	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxAvatarSize+1))
	if err != nil {
		return "", fmt.Errorf("error reading file content: %w", err)
	}
	if len(content) > maxAvatarSize {
		return "", fmt.Errorf("%w: avatar must be at most 5MB", ErrUnsupportedFile)
	}

	kind, err := filetype.Image(content)
	if err != nil || kind == types.Unknown {
		return "", fmt.Errorf("%w: not an image", ErrUnsupportedFile)
	}
	if _, ok := avatarTypes[kind.MIME.Value]; !ok {
		err = fmt.Errorf("%w: %s is not allowed", ErrUnsupportedFile, kind.MIME.Value)
		slog.Info(err.Error())
		return "", err
	}

	id, err := repository.NewID()
	if err != nil {
		return "", err
	}
	return s.store.Upload(ctx, fmt.Sprintf("avatars/%s/%s.%s", uid, id, kind.Extension), content, kind.MIME.Value)
}
