package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/auth"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
	slipapi "github.com/MrJamesThe3rd/fleetfuel/internal/http/fuelslip"
	"github.com/MrJamesThe3rd/fleetfuel/internal/http/respond"
	"github.com/MrJamesThe3rd/fleetfuel/internal/importer"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	slipSvc   *fuelslip.Service
}

func NewHandler(importSvc *importer.Service, slipSvc *fuelslip.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		slipSvc:   slipSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type importSuccessResponse struct {
	Imported int                    `json:"imported"`
	Slips    []slipapi.SlipResponse `json:"slips"`
}

type conflictDTO struct {
	Incoming slipapi.ParamsDTO     `json:"incoming"`
	Existing *slipapi.SlipResponse `json:"existing,omitempty"`
}

type unresolvedDTO struct {
	Row      int               `json:"row"`
	Incoming slipapi.ParamsDTO `json:"incoming"`
	Code     string            `json:"code"`
	Message  string            `json:"message"`
}

type importConflictResponse struct {
	New        []slipapi.ParamsDTO `json:"new"`
	Conflicts  []conflictDTO       `json:"conflicts"`
	Unresolved []unresolvedDTO     `json:"unresolved"`
}

type confirmRequest struct {
	Params []slipapi.ParamsDTO `json:"params"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, r, apperr.Validation("FORM_INVALID", "failed to parse form: %v", err))
		return
	}

	provider := importer.Provider(r.FormValue("provider"))
	if provider == "" {
		provider = importer.ProviderFuelCard
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, r, apperr.Validation("FILE_REQUIRED", "file field is required"))
		return
	}
	defer file.Close()

	actor := auth.Actor(r.Context())

	params, err := h.importSvc.Import(r.Context(), provider, file, actor)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	result, err := h.slipSvc.ImportBatch(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 || len(result.Unresolved) > 0 {
		respond.JSON(w, r, http.StatusConflict, toConflictResponse(result))
		return
	}

	respond.JSON(w, r, http.StatusCreated, toSuccessResponse(result.Imported))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	actor := auth.Actor(r.Context())

	params := make([]fuelslip.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, p.Params(actor))
	}

	slips, err := h.slipSvc.CreateBatch(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, toSuccessResponse(slips))
}

func toSuccessResponse(slips []*fuelslip.FuelSlip) importSuccessResponse {
	return importSuccessResponse{
		Imported: len(slips),
		Slips:    slipapi.ToResponseList(slips),
	}
}

func toConflictResponse(result *fuelslip.ImportResult) importConflictResponse {
	resp := importConflictResponse{
		New:        make([]slipapi.ParamsDTO, 0, len(result.New)),
		Conflicts:  make([]conflictDTO, 0, len(result.Conflicts)),
		Unresolved: make([]unresolvedDTO, 0, len(result.Unresolved)),
	}

	for _, p := range result.New {
		resp.New = append(resp.New, slipapi.ToParamsDTO(p))
	}

	for _, c := range result.Conflicts {
		dto := conflictDTO{Incoming: slipapi.ToParamsDTO(c.Incoming)}
		if c.Existing != nil {
			dto.Existing = new(slipapi.ToResponse(c.Existing))
		}

		resp.Conflicts = append(resp.Conflicts, dto)
	}

	for _, u := range result.Unresolved {
		resp.Unresolved = append(resp.Unresolved, unresolvedDTO{
			Row:      u.Row,
			Incoming: slipapi.ToParamsDTO(u.Incoming),
			Code:     apperr.CodeOf(u.Err),
			Message:  u.Err.Error(),
		})
	}

	return resp
}
