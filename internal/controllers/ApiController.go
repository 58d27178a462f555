package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"punchd/internal/models"
	"punchd/internal/providers"
	"punchd/internal/services"
	"punchd/internal/settings"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const resolveCacheKey = "resolve"

type ApiController struct {
	logger    providers.Logger
	store     settings.StoreInterface
	lifecycle services.LifecycleServiceInterface
	resolver  services.ResolverServiceInterface
	punch     services.PunchServiceInterface
	cache     providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, store settings.StoreInterface, lifecycle services.LifecycleServiceInterface, resolver services.ResolverServiceInterface, punch services.PunchServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:    logger,
		store:     store,
		lifecycle: lifecycle,
		resolver:  resolver,
		punch:     punch,
		cache:     cache,
	}
}

type stateResponse struct {
	State      string                          `json:"state"`
	Targets    int                             `json:"targets"`
	SavedDraft *models.PunchDraft              `json:"savedPunchInSettings,omitempty"`
	Validation *models.ValidationResult        `json:"validation,omitempty"`
	Recovered  []models.ConversationDiagnostic `json:"recoverable,omitempty"`
}

type punchRequest struct {
	PunchIn           models.PunchAction `json:"punchIn"`
	ChangeStatusEmoji bool               `json:"changeStatusEmoji"`
	InOffice          bool               `json:"inOffice"`
	AdditionalMessage string             `json:"additionalMessage"`
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) buildState() stateResponse {
	state := ac.lifecycle.State()
	cfg, validation := ac.lifecycle.Settings()

	resp := stateResponse{State: state.String()}
	if cfg != nil {
		resp.Targets = len(cfg.Conversations)
		resp.SavedDraft = cfg.SavedDraft
	}
	if !validation.Valid {
		resp.Validation = &validation
		resp.Recovered = validation.Raw.Diagnostics()
	}
	return resp
}

func (ac *ApiController) GetState(w http.ResponseWriter, r *http.Request) {
	ac.writeJSON(w, http.StatusOK, ac.buildState())
}

func (ac *ApiController) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, validation := ac.lifecycle.Settings()
	if !validation.Valid {
		ac.writeJSON(w, http.StatusConflict, ac.buildState())
		return
	}
	ac.writeJSON(w, http.StatusOK, cfg)
}

func (ac *ApiController) SaveSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.AppSettings
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	settings.EnsureConversationIDs(&payload)
	if err := ac.store.Save(&payload); err != nil {
		ac.logger.Errorf(providers.TypeSettings, "Failed to save settings: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Del(resolveCacheKey)
	ac.lifecycle.Refresh()
	ac.writeJSON(w, http.StatusOK, ac.buildState())
}

func (ac *ApiController) Reset(w http.ResponseWriter, r *http.Request) {
	if _, err := ac.lifecycle.Reset(); err != nil {
		ac.logger.Errorf(providers.TypeSettings, "Reset failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.Del(resolveCacheKey)
	ac.writeJSON(w, http.StatusOK, ac.buildState())
}

func (ac *ApiController) GetResolved(w http.ResponseWriter, r *http.Request) {
	if ac.lifecycle.State() != services.StateReady {
		ac.writeJSON(w, http.StatusConflict, ac.buildState())
		return
	}

	ac.serveFromCacheOrCompute(w, resolveCacheKey, func() (any, error) {
		cfg, _ := ac.lifecycle.Settings()
		return ac.resolver.Resolve(r.Context(), cfg.Conversations), nil
	})
}

func (ac *ApiController) Punch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload punchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if payload.PunchIn != models.PunchStart && payload.PunchIn != models.PunchEnd {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if ac.lifecycle.State() != services.StateReady {
		ac.writeJSON(w, http.StatusConflict, ac.buildState())
		return
	}

	cfg, _ := ac.lifecycle.Settings()
	resolved := ac.resolver.Resolve(r.Context(), cfg.Conversations)

	draft := models.PunchDraft{
		ChangeStatusEmoji: payload.ChangeStatusEmoji,
		InOffice:          payload.InOffice,
		AdditionalMessage: payload.AdditionalMessage,
	}

	outcomes, err := ac.punch.SubmitPunch(r.Context(), payload.PunchIn, draft, resolved)
	if err != nil {
		ac.logger.Errorf(providers.TypePunch, "Punch rejected: %s", err)
		ac.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	// Today's thread set may have just changed.
	ac.cache.Del(resolveCacheKey)

	ac.writeJSON(w, http.StatusOK, outcomes)
}
