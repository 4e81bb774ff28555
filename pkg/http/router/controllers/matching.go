package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/ridematch/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/ridematch/pkg/participant"
	"github.com/lintang-b-s/ridematch/pkg/weight"
	"go.uber.org/zap"
)

type matchingAPI struct {
	matchingService MatchingService
	defaultScheme   weight.Scheme
	maxParticipants int
	validate        *validator.Validate
	trans           ut.Translator
	log             *zap.Logger
}

func New(matchingService MatchingService, defaultScheme weight.Scheme, maxParticipants int,
	log *zap.Logger) *matchingAPI {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	return &matchingAPI{
		matchingService: matchingService,
		defaultScheme:   defaultScheme,
		maxParticipants: maxParticipants,
		validate:        validate,
		trans:           trans,
		log:             log,
	}
}

func (api *matchingAPI) Routes(group *helper.RouteGroup) {
	group.POST("/match", api.match)
	group.GET("/schemes", api.schemes)
}

// match
//
//	@Summary		Match drivers to riders
//	@Description	Builds the feasible driver/rider pairs, scores them with the requested weighting scheme and returns the optimal one-to-one matching. Malformed trips are listed under rejected and left out of the matching.
//	@Tags			matching
//	@Accept			json
//	@Produce		json
//	@Param			body	body		matchRequest			true	"drivers, riders and solver settings"
//	@Success		200		{object}	matchingResultResponse	"matching result under data"
//	@Header			200		{string}	X-Run-Id				"id of the matching run"
//	@Failure		400		{object}	errorBody				"malformed body, unknown scheme or too many participants"
//	@Failure		415		{string}	string					"body is not JSON"
//	@Failure		429		{object}	errorBody				"rate limit exceeded"
//	@Failure		500		{object}	errorBody				"solver failure"
//	@Failure		503		{object}	errorBody				"run aborted or no free solver"
//	@Router			/match [post]
func (api *matchingAPI) match(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request matchRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	if err := api.validate.Struct(request); err != nil {
		vv := translateError(err, api.trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}
	if n := len(request.Drivers) + len(request.Riders); api.maxParticipants > 0 && n > api.maxParticipants {
		api.BadRequestResponse(w, r, fmt.Errorf("too many participants: %d, at most %d", n, api.maxParticipants))
		return
	}

	scheme := api.defaultScheme
	if request.Scheme != "" {
		var err error
		scheme, err = weight.ParseScheme(request.Scheme)
		if err != nil {
			api.BadRequestResponse(w, r, err)
			return
		}
	}
	timeLimit := time.Duration(request.TimeLimitSeconds * float64(time.Second))

	res, err := api.matchingService.Match(r.Context(), scheme, timeLimit,
		toParticipants(request.Drivers, participant.Driver), toParticipants(request.Riders, participant.Rider))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("X-Run-Id", res.RunID)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewMatchingResultResponse(res)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// schemes
//
//	@Summary		List weighting schemes
//	@Description	Lists the accepted weighting scheme names and the configured default.
//	@Tags			matching
//	@Produce		json
//	@Success		200	{object}	schemesResponse	"scheme names under data"
//	@Router			/schemes [get]
func (api *matchingAPI) schemes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	names := make([]string, 0, len(weight.Schemes()))
	for _, s := range weight.Schemes() {
		names = append(names, s.String())
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": schemesResponse{
		Schemes: names,
		Default: api.defaultScheme.String(),
	}}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
