// Package server provides the Connect RPC and HTTP surface of the title normalizer.
package server

import (
	"context"
	"fmt"
	"net/http"

	"connectrpc.com/connect"

	"github.com/tiksanauto/cartitle/internal/title"
)

const (
	TitleServiceName = "cartitle.v1.TitleService"

	TranslateTitleProcedure  = "/" + TitleServiceName + "/TranslateTitle"
	TranslateTitlesProcedure = "/" + TitleServiceName + "/TranslateTitles"
)

type TranslateTitleRequest struct {
	Title string `json:"title"`
}

type TranslateTitleResponse struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	Path   string `json:"path"`
	Reason string `json:"reason,omitempty"`
}

type TranslateTitlesRequest struct {
	Titles []string `json:"titles"`
}

type TranslateTitlesResponse struct {
	Titles []string `json:"titles"`
}

// TitleTranslator is satisfied by *title.Normalizer.
type TitleTranslator interface {
	Translate(ctx context.Context, source string) title.Outcome
	TranslateBatch(ctx context.Context, sources []string) []string
}

type TitleHandler struct {
	translator   TitleTranslator
	maxBatchSize int
}

func NewTitleHandler(translator TitleTranslator, maxBatchSize int) *TitleHandler {
	return &TitleHandler{
		translator:   translator,
		maxBatchSize: maxBatchSize,
	}
}

// TranslateTitle never fails for a well-formed request; degraded titles are
// reported through Path and Reason.
func (h *TitleHandler) TranslateTitle(
	ctx context.Context,
	req *connect.Request[TranslateTitleRequest],
) (*connect.Response[TranslateTitleResponse], error) {
	outcome := h.translator.Translate(ctx, req.Msg.Title)
	return connect.NewResponse(&TranslateTitleResponse{
		Title:  outcome.Title,
		Source: req.Msg.Title,
		Path:   string(outcome.Path),
		Reason: string(outcome.Reason),
	}), nil
}

func (h *TitleHandler) TranslateTitles(
	ctx context.Context,
	req *connect.Request[TranslateTitlesRequest],
) (*connect.Response[TranslateTitlesResponse], error) {
	switch n := len(req.Msg.Titles); {
	case n == 0:
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("titles must not be empty"))
	case h.maxBatchSize > 0 && n > h.maxBatchSize:
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("at most %d titles per request, got %d", h.maxBatchSize, n))
	}

	return connect.NewResponse(&TranslateTitlesResponse{
		Titles: h.translator.TranslateBatch(ctx, req.Msg.Titles),
	}), nil
}

// NewTitleServiceHandler returns the path to mount the service on and its handler.
func NewTitleServiceHandler(h *TitleHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSONCodec()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(TranslateTitleProcedure, connect.NewUnaryHandler(TranslateTitleProcedure, h.TranslateTitle, opts...))
	mux.Handle(TranslateTitlesProcedure, connect.NewUnaryHandler(TranslateTitlesProcedure, h.TranslateTitles, opts...))
	return "/" + TitleServiceName + "/", mux
}
