package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/crystal-levels/internal/config"
	"github.com/vancomm/crystal-levels/internal/level"
	"github.com/vancomm/crystal-levels/internal/middleware"
	"github.com/vancomm/crystal-levels/internal/repository"
)

type LevelStore interface {
	CreateLevel(ctx context.Context, authorId *int64, lvl *level.Level) (*repository.LevelRecord, error)
	FetchLevel(ctx context.Context, levelId int64) (*repository.LevelRecord, error)
	ListLevels(ctx context.Context, filter repository.LevelFilter) ([]repository.LevelRecord, error)
}

type LevelHandler struct {
	log  logrus.FieldLogger
	repo LevelStore
	gen  *level.Generator
	ws   *config.WebSocket
	// seed draws a seed for requests that do not pin one.
	seed func() uint64
}

func NewLevelHandler(
	log logrus.FieldLogger,
	repo LevelStore,
	gen *level.Generator,
	ws *config.WebSocket,
) *LevelHandler {
	return &LevelHandler{
		log:  log,
		repo: repo,
		gen:  gen,
		ws:   ws,
		seed: level.RandomSeed,
	}
}

const maxAnalyzeBody = 1 << 20

var ErrCountOutOfRange = fmt.Errorf("count must be in [1, %d]", MaxBatchCount)

func authorId(r *http.Request) *int64 {
	if claims, ok := middleware.AuthorClaims(r.Context()); ok {
		return &claims.AuthorId
	}
	return nil
}

func (h LevelHandler) generate(ctx context.Context, params level.Params, seed uint64) (*level.Level, error) {
	return h.gen.GenerateSeed(ctx, params, seed)
}

// generationFailed maps generator errors to a response. Exhausted budgets are
// the client's problem: the size asked for is too hard to fill.
func (h LevelHandler) generationFailed(w http.ResponseWriter, params level.Params, err error) {
	if errors.Is(err, level.ErrGenerationFailed) {
		h.log.WithError(err).WithField("params", params.String()).Warn("level generation failed")
		sendError(w, h.log, http.StatusUnprocessableEntity, err)
		return
	}
	internalError(w, h.log, err, "unable to generate level")
}

func (h LevelHandler) NewLevel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}
	dto, err := ParseGenerateLevelDTO(r.Form)
	if err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}

	params := dto.Params()
	if err := params.Validate(); err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}

	seed := h.seed()
	if dto.Seed != nil {
		seed = *dto.Seed
	}

	lvl, err := h.generate(r.Context(), params, seed)
	if err != nil {
		h.generationFailed(w, params, err)
		return
	}

	record, err := h.repo.CreateLevel(r.Context(), authorId(r), lvl)
	if err != nil {
		internalError(w, h.log, err, "unable to store level")
		return
	}

	h.log.WithFields(logrus.Fields{
		"level_id": record.LevelId,
		"params":   params.String(),
		"attempts": lvl.Attempts,
	}).Info("level generated")

	sendJSONWithStatus(w, h.log, http.StatusCreated, NewStoredLevelDTO(record, lvl))
}

// Batch generates count levels of one size concurrently. With a seed, level
// i uses seed+i so the whole batch can be rebuilt.
func (h LevelHandler) Batch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}
	dto, err := ParseGenerateBatchDTO(r.Form)
	if err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}

	params := level.Params{Width: dto.Width, Height: dto.Height}
	if err := params.Validate(); err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}
	if dto.Count < 1 || dto.Count > MaxBatchCount {
		sendError(w, h.log, http.StatusBadRequest, ErrCountOutOfRange)
		return
	}

	seeds := make([]uint64, dto.Count)
	for i := range seeds {
		if dto.Seed != nil {
			seeds[i] = *dto.Seed + uint64(i)
		} else {
			seeds[i] = h.seed()
		}
	}

	levels := make([]*level.Level, dto.Count)
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, seed := range seeds {
		g.Go(func() error {
			lvl, err := h.generate(ctx, params, seed)
			if err != nil {
				return err
			}
			levels[i] = lvl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.generationFailed(w, params, err)
		return
	}

	author := authorId(r)
	res := make([]*LevelDTO, len(levels))
	for i, lvl := range levels {
		record, err := h.repo.CreateLevel(r.Context(), author, lvl)
		if err != nil {
			internalError(w, h.log, err, "unable to store level")
			return
		}
		res[i] = NewStoredLevelDTO(record, lvl)
	}

	h.log.WithFields(logrus.Fields{
		"params": params.String(),
		"count":  dto.Count,
	}).Info("level batch generated")

	sendJSONWithStatus(w, h.log, http.StatusCreated, res)
}

func (h LevelHandler) List(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseListLevelsDTO(r.URL.Query())
	if err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}

	filter := repository.LevelFilter{
		Width:  dto.Width,
		Height: dto.Height,
		Limit:  dto.Limit,
	}
	if dto.Mine {
		claims, ok := middleware.AuthorClaims(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		filter.AuthorId = &claims.AuthorId
	}

	records, err := h.repo.ListLevels(r.Context(), filter)
	if err != nil {
		internalError(w, h.log, err, "unable to list levels")
		return
	}

	res := make([]LevelSummaryDTO, len(records))
	for i := range records {
		res[i] = NewLevelSummaryDTO(&records[i])
	}
	sendJSONOrLog(w, h.log, res)
}

func (h LevelHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	levelId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	record, err := h.repo.FetchLevel(r.Context(), levelId)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, h.log, err, "unable to fetch level")
		return
	}

	lvl, err := record.Level()
	if err != nil {
		internalError(w, h.log, err, "unable to decode level")
		return
	}

	sendJSONOrLog(w, h.log, NewStoredLevelDTO(record, lvl))
}

// Analyze checks a level posted as JSON and reports why it is or is not
// playable.
func (h LevelHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var lvl level.Level
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAnalyzeBody)).Decode(&lvl); err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}

	report, err := level.Analyze(lvl.Grid, lvl.RequiredCrystals)
	if err != nil {
		sendError(w, h.log, http.StatusUnprocessableEntity, err)
		return
	}

	sendJSONOrLog(w, h.log, report)
}
