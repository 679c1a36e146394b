package handlers

import (
	"net/url"
	"strconv"

	"github.com/gorilla/schema"

	"github.com/vancomm/crystal-levels/internal/level"
	"github.com/vancomm/crystal-levels/internal/repository"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type GenerateLevelDTO struct {
	Width  int     `schema:"width,required" json:"width"`
	Height int     `schema:"height,required" json:"height"`
	Seed   *uint64 `schema:"seed" json:"seed,omitempty"`
}

func (d GenerateLevelDTO) Params() level.Params {
	return level.Params{Width: d.Width, Height: d.Height}
}

func ParseGenerateLevelDTO(src url.Values) (GenerateLevelDTO, error) {
	var dto GenerateLevelDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

const MaxBatchCount = 32

type GenerateBatchDTO struct {
	Width  int     `schema:"width,required"`
	Height int     `schema:"height,required"`
	Count  int     `schema:"count,required"`
	Seed   *uint64 `schema:"seed"`
}

func ParseGenerateBatchDTO(src url.Values) (GenerateBatchDTO, error) {
	var dto GenerateBatchDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type ListLevelsDTO struct {
	Width  *int `schema:"width"`
	Height *int `schema:"height"`
	Mine   bool `schema:"mine"`
	Limit  int  `schema:"limit"`
}

func ParseListLevelsDTO(src url.Values) (ListLevelsDTO, error) {
	var dto ListLevelsDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

// LevelDTO is what clients see of a level. Ids and seeds are strings since
// they do not fit a JSON number.
type LevelDTO struct {
	LevelId          string       `json:"level_id,omitempty"`
	AuthorId         *string      `json:"author_id,omitempty"`
	Width            int          `json:"width"`
	Height           int          `json:"height"`
	RequiredCrystals int          `json:"required_crystals"`
	Seed             string       `json:"seed"`
	Attempts         int          `json:"attempts"`
	CreatedAt        int64        `json:"created_at,omitempty"`
	Level            *level.Level `json:"level"`
}

func NewLevelDTO(lvl *level.Level) *LevelDTO {
	return &LevelDTO{
		Width:            lvl.Grid.Width(),
		Height:           lvl.Grid.Height(),
		RequiredCrystals: lvl.RequiredCrystals,
		Seed:             strconv.FormatUint(lvl.Seed, 10),
		Attempts:         lvl.Attempts,
		Level:            lvl,
	}
}

func NewStoredLevelDTO(record *repository.LevelRecord, lvl *level.Level) *LevelDTO {
	dto := NewLevelDTO(lvl)
	dto.LevelId = strconv.FormatInt(record.LevelId, 10)
	if record.AuthorId != nil {
		id := strconv.FormatInt(*record.AuthorId, 10)
		dto.AuthorId = &id
	}
	dto.CreatedAt = record.CreatedAt.UnixMilli()
	return dto
}

// LevelSummaryDTO leaves the tiles out of listings.
type LevelSummaryDTO struct {
	LevelId          string  `json:"level_id"`
	AuthorId         *string `json:"author_id,omitempty"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	RequiredCrystals int     `json:"required_crystals"`
	Seed             string  `json:"seed"`
	Attempts         int     `json:"attempts"`
	CreatedAt        int64   `json:"created_at"`
}

func NewLevelSummaryDTO(r *repository.LevelRecord) LevelSummaryDTO {
	dto := LevelSummaryDTO{
		LevelId:          strconv.FormatInt(r.LevelId, 10),
		Width:            int(r.Width),
		Height:           int(r.Height),
		RequiredCrystals: int(r.RequiredCrystals),
		Seed:             strconv.FormatUint(uint64(r.Seed), 10),
		Attempts:         int(r.Attempts),
		CreatedAt:        r.CreatedAt.UnixMilli(),
	}
	if r.AuthorId != nil {
		id := strconv.FormatInt(*r.AuthorId, 10)
		dto.AuthorId = &id
	}
	return dto
}
