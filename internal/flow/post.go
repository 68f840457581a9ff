// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package flow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"

	"github.com/olegiv/inkwell/internal/api"
	"github.com/olegiv/inkwell/internal/form"
	"github.com/olegiv/inkwell/internal/imaging"
	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/validation"
)

// User-visible post messages.
const (
	MsgPostLoadFailed   = "Failed to load post."
	MsgPostUpdated      = "Post updated successfully!"
	MsgImageRejected    = "Image could not be used"
	MsgImageHostBlocked = "Image host is not allowed"
)

// PostAPI is the part of the API used by the post flow.
type PostAPI interface {
	PostBySlug(ctx context.Context, slug string) (model.Post, error)
	UpdatePost(ctx context.Context, id string, update api.PostUpdate) error
	UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// TagSource lists the tag catalog.
type TagSource interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
}

// Upload is a cover image file submitted with the form.
type Upload struct {
	Filename string
	Body     io.Reader
}

// ImageChange is the image edit made during this session. URL is an image
// already hosted (for example from an earlier upload); Upload is a new file.
// Both empty means the image was not changed.
type ImageChange struct {
	URL    string
	Upload *Upload
}

// PostEditor is what the edit page needs besides the form values.
type PostEditor struct {
	Post model.Post
	Tags []model.Tag
}

// EditPost loads and saves a blog post.
type EditPost struct {
	posts     PostAPI
	tags      TagSource
	hosts     *imaging.HostPolicy
	sanitizer *bluemonday.Policy
	maxUpload int64
	obs       Observer
	logger    *slog.Logger
}

// NewEditPost creates the post flow. posts must already carry the caller's token.
func NewEditPost(posts PostAPI, tags TagSource, hosts *imaging.HostPolicy, maxUpload int64,
	obs Observer, logger *slog.Logger) *EditPost {
	return &EditPost{
		posts:     posts,
		tags:      tags,
		hosts:     hosts,
		sanitizer: bluemonday.UGCPolicy(),
		maxUpload: maxUpload,
		obs:       observerOrNop(obs),
		logger:    logger,
	}
}

// PostValues maps a post onto the form fields.
func PostValues(p model.Post) validation.Values {
	v := make(validation.Values)
	v.Set(FieldTitle, p.Title)
	v.Set(FieldDescription, p.Content)
	v.SetList(FieldTagIDs, p.TagIDs())
	return v
}

// Load fetches the post and the tag catalog concurrently and prefills f.
func (e *EditPost) Load(ctx context.Context, slug string, f *form.Form) (PostEditor, Outcome) {
	var ed PostEditor
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := e.posts.PostBySlug(gctx, slug)
		if err != nil {
			return fmt.Errorf("fetching post: %w", err)
		}
		ed.Post = p
		return nil
	})
	g.Go(func() error {
		tags, err := e.tags.ListTags(gctx)
		if err != nil {
			return fmt.Errorf("fetching tags: %w", err)
		}
		ed.Tags = tags
		return nil
	})
	if err := g.Wait(); err != nil {
		e.logger.Error("failed to load post", "slug", slug, "error", err)
		return PostEditor{}, Outcome{Result: ResultError, Notice: errorNotice(MsgPostLoadFailed)}
	}

	f.Prefill(PostValues(ed.Post))
	return ed, Outcome{Result: ResultSuccess}
}

// Submit saves the post. The payload image is the image changed in this
// session if any, otherwise the post's existing image, so an untouched
// image is never cleared.
func (e *EditPost) Submit(ctx context.Context, f *form.Form, post model.Post, change ImageChange) (Outcome, error) {
	var out Outcome
	err := run(ctx, "edit_post", f, e.obs, e.logger, &out, func(ctx context.Context, v validation.Values) error {
		current, err := e.resolveImage(ctx, change)
		if err != nil {
			out = e.imageFailure(err)
			return err
		}

		update := api.PostUpdate{
			Title:       v.Get(FieldTitle),
			Description: e.sanitizer.Sanitize(v.Get(FieldDescription)),
			TagIDs:      v.List(FieldTagIDs),
			Image:       pickImage(current, post.ImageURL()),
		}
		if err := e.posts.UpdatePost(ctx, post.ID.String(), update); err != nil {
			e.logger.Error("failed to update post", "post_id", post.ID, "error", err)
			out = Outcome{Result: ResultError, Notice: errorNotice(MsgUpdateFailed)}
			return err
		}

		target := PostPath(post.Slug)
		if author := post.AuthorUsername(); author != "" {
			target = ProfilePath(author)
		} else {
			e.logger.Warn("post has no author reference, redirecting to post", "post_id", post.ID, "slug", post.Slug)
		}
		out = Outcome{Redirect: target, Notice: successNotice(MsgPostUpdated)}
		return nil
	})
	return out, err
}

// pickImage returns current when set, otherwise existing, otherwise nil.
func pickImage(current, existing string) *string {
	switch {
	case current != "":
		return &current
	case existing != "":
		return &existing
	default:
		return nil
	}
}

// resolveImage turns the image change into a hosted URL. An empty result
// means unchanged.
func (e *EditPost) resolveImage(ctx context.Context, change ImageChange) (string, error) {
	if change.Upload != nil {
		cover, err := imaging.PrepareCover(change.Upload.Body, change.Upload.Filename, e.maxUpload)
		if err != nil {
			return "", err
		}
		u, err := e.posts.UploadImage(ctx, cover.Filename, cover.ContentType, cover.Data)
		if err != nil {
			return "", fmt.Errorf("uploading cover: %w", err)
		}
		change.URL = u
	}
	if change.URL == "" {
		return "", nil
	}
	if err := e.hosts.Check(change.URL); err != nil {
		return "", err
	}
	return change.URL, nil
}

func (e *EditPost) imageFailure(err error) Outcome {
	switch {
	case errors.Is(err, imaging.ErrHostNotAllowed):
		e.logger.Warn("image host rejected", "error", err)
		return Outcome{Result: ResultError, Notice: errorNotice(MsgImageHostBlocked)}
	case errors.Is(err, imaging.ErrUnsupportedFormat), errors.Is(err, imaging.ErrTooLarge):
		e.logger.Info("cover image rejected", "error", err)
		return Outcome{Result: ResultError, Notice: errorNotice(MsgImageRejected + ": " + err.Error())}
	default:
		e.logger.Error("cover image processing failed", "error", err)
		return Outcome{Result: ResultError, Notice: errorNotice(MsgUpdateFailed)}
	}
}
