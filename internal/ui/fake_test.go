package ui

import (
	"context"

	"havencli/internal/api"
	"havencli/internal/models"
)

// fakeClient implements api.Client with overridable function fields.
// Methods without an override return zero values.
type fakeClient struct {
	RegisterFunc        func(ctx context.Context, username, password string) (api.AuthResult, error)
	LoginFunc           func(ctx context.Context, username, password string, device models.DeviceInfo) (api.AuthResult, error)
	LoginPassphraseFunc func(ctx context.Context, username, passphrase string, device models.DeviceInfo) (api.AuthResult, error)
	LogoutFunc          func(ctx context.Context) error
	MeFunc              func(ctx context.Context) (models.User, error)
	CreatePostFunc      func(ctx context.Context, draft models.PostDraft) (models.Post, error)
}

func (f *fakeClient) Register(ctx context.Context, username, password string) (api.AuthResult, error) {
	if f.RegisterFunc != nil {
		return f.RegisterFunc(ctx, username, password)
	}
	return api.AuthResult{}, nil
}

func (f *fakeClient) Login(ctx context.Context, username, password string, device models.DeviceInfo) (api.AuthResult, error) {
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, username, password, device)
	}
	return api.AuthResult{}, nil
}

func (f *fakeClient) LoginPassphrase(ctx context.Context, username, passphrase string, device models.DeviceInfo) (api.AuthResult, error) {
	if f.LoginPassphraseFunc != nil {
		return f.LoginPassphraseFunc(ctx, username, passphrase, device)
	}
	return api.AuthResult{}, nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	if f.LogoutFunc != nil {
		return f.LogoutFunc(ctx)
	}
	return nil
}

func (f *fakeClient) Me(ctx context.Context) (models.User, error) {
	if f.MeFunc != nil {
		return f.MeFunc(ctx)
	}
	return models.User{}, nil
}

func (f *fakeClient) Feed(ctx context.Context, q models.FeedQuery) (api.FeedPage, error) {
	return api.FeedPage{}, nil
}

func (f *fakeClient) CreatePost(ctx context.Context, draft models.PostDraft) (models.Post, error) {
	if f.CreatePostFunc != nil {
		return f.CreatePostFunc(ctx, draft)
	}
	return models.Post{}, nil
}

func (f *fakeClient) VotePost(ctx context.Context, postID string, up bool) error { return nil }

func (f *fakeClient) SavePost(ctx context.Context, postID string, saved bool) error { return nil }

func (f *fakeClient) ReportPost(ctx context.Context, postID, reason string) error { return nil }

func (f *fakeClient) UpdatePostUrgency(ctx context.Context, postID string, level models.UrgencyLevel) (models.Post, error) {
	return models.Post{}, nil
}

func (f *fakeClient) Comments(ctx context.Context, postID string) ([]models.Comment, error) {
	return nil, nil
}

func (f *fakeClient) CreateComment(ctx context.Context, postID string, draft models.CommentDraft) (models.Comment, error) {
	return models.Comment{}, nil
}

func (f *fakeClient) LikeComment(ctx context.Context, commentID string, liked bool) error { return nil }

func (f *fakeClient) Tags(ctx context.Context, category string) ([]models.Tag, error) { return nil, nil }

func (f *fakeClient) PopularTags(ctx context.Context, limit int) ([]models.Tag, error) {
	return nil, nil
}

func (f *fakeClient) CreateTag(ctx context.Context, name, category string) (models.Tag, error) {
	return models.Tag{}, nil
}

func (f *fakeClient) Notifications(ctx context.Context, page, limit int) (api.NotificationPage, error) {
	return api.NotificationPage{}, nil
}

func (f *fakeClient) MarkNotificationRead(ctx context.Context, id string) error { return nil }

func (f *fakeClient) MarkAllNotificationsRead(ctx context.Context) error { return nil }
