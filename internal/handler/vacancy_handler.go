package handler

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/roomscout/roomscout-api/internal/models"
	"github.com/roomscout/roomscout-api/internal/service"
	appErrors "github.com/roomscout/roomscout-api/pkg/errors"
	"github.com/roomscout/roomscout-api/pkg/response"
	"github.com/roomscout/roomscout-api/pkg/timefmt"
)

// FreeWindow is one free interval rendered for API consumers: canonical
// 24-hour bounds plus a 12-hour display form.
type FreeWindow struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	StartDisplay string `json:"start_display"`
	EndDisplay   string `json:"end_display"`
}

// RoomVacancies groups the free windows of one room.
type RoomVacancies struct {
	Room    string       `json:"room"`
	Windows []FreeWindow `json:"windows"`
}

// VacancyHandler exposes free-interval queries.
type VacancyHandler struct {
	service        *service.VacancyService
	defaultMinFree int
}

// NewVacancyHandler constructs handler.
func NewVacancyHandler(svc *service.VacancyService, defaultMinFree int) *VacancyHandler {
	if defaultMinFree < 0 {
		defaultMinFree = 0
	}
	return &VacancyHandler{service: svc, defaultMinFree: defaultMinFree}
}

// Floor handles GET /vacancies/floor?building=&floor=&day=&min_free=30m.
func (h *VacancyHandler) Floor(c *gin.Context) {
	floor, err := strconv.Atoi(c.Query("floor"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "floor must be an integer"))
		return
	}

	minFree, err := h.minFreeMinutes(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	free, err := h.service.FloorVacancies(c.Request.Context(), service.FloorVacancyQuery{
		Building:       c.Query("building"),
		Floor:          floor,
		Day:            c.Query("day"),
		MinFreeMinutes: minFree,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	rooms := make([]RoomVacancies, 0, len(free))
	for room, windows := range free {
		rooms = append(rooms, RoomVacancies{Room: room, Windows: renderWindows(windows)})
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Room < rooms[j].Room })

	response.JSON(c, http.StatusOK, rooms)
}

// Room handles GET /vacancies/room?building=&room=&day=&min_free=30m.
func (h *VacancyHandler) Room(c *gin.Context) {
	minFree, err := h.minFreeMinutes(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	free, err := h.service.RoomVacancies(c.Request.Context(), service.RoomVacancyQuery{
		Building:       c.Query("building"),
		Room:           c.Query("room"),
		Day:            c.Query("day"),
		MinFreeMinutes: minFree,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, RoomVacancies{
		Room:    c.Query("room"),
		Windows: renderWindows(free),
	})
}

func (h *VacancyHandler) minFreeMinutes(c *gin.Context) (int, error) {
	raw := c.Query("min_free")
	if raw == "" {
		return h.defaultMinFree, nil
	}
	return timefmt.ParseMinutes(raw)
}

func renderWindows(windows []models.Interval) []FreeWindow {
	out := make([]FreeWindow, 0, len(windows))
	for _, w := range windows {
		out = append(out, FreeWindow{
			Start:        w.Start,
			End:          w.End,
			StartDisplay: timefmt.Clock12(w.Start),
			EndDisplay:   timefmt.Clock12(w.End),
		})
	}
	return out
}
