package handlers

import (
	"github.com/gin-gonic/gin"

	"metatype/internal/core/apperror"
	"metatype/internal/core/types"
	"metatype/internal/domain/typedef"
	"metatype/internal/infrastructure/http/v1/dto"
)

// TypeDefHandler serves the type definition CRUD and the value
// operations (format, parse, validate).
type TypeDefHandler struct {
	*BaseHandler
	svc *typedef.Service
}

// NewTypeDefHandler creates a new TypeDef handler.
func NewTypeDefHandler(base *BaseHandler, svc *typedef.Service) *TypeDefHandler {
	return &TypeDefHandler{BaseHandler: base, svc: svc}
}

// List returns registered types.
// GET /api/v1/types
// GET /api/v1/types?stored=true returns only stored (tenant-defined) entries.
func (h *TypeDefHandler) List(c *gin.Context) {
	if c.Query("stored") == "true" {
		defs, err := h.svc.List(c.Request.Context())
		if err != nil {
			h.HandleError(c, err)
			return
		}
		out := make([]dto.TypeDefResponse, 0, len(defs))
		for _, def := range defs {
			out = append(out, dto.FromTypeDef(def))
		}
		h.OK(c, out)
		return
	}

	registered := h.svc.Registered()
	out := make([]dto.RegisteredTypeResponse, 0, len(registered))
	for _, def := range registered {
		out = append(out, dto.FromDefinition(def))
	}
	h.OK(c, out)
}

// Get returns a stored type definition by name.
// GET /api/v1/types/:name
func (h *TypeDefHandler) Get(c *gin.Context) {
	def, err := h.svc.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromTypeDef(def))
}

// Create stores and registers a new type definition.
// POST /api/v1/types
func (h *TypeDefHandler) Create(c *gin.Context) {
	var req dto.CreateTypeDefRequest
	if !h.BindJSON(c, &req) {
		return
	}

	def := req.ToEntity()
	if err := h.svc.Create(c.Request.Context(), def); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, def.ID.String())
}

// Update modifies a stored type definition.
// PUT /api/v1/types/:name
func (h *TypeDefHandler) Update(c *gin.Context) {
	var req dto.UpdateTypeDefRequest
	if !h.BindJSON(c, &req) {
		return
	}

	def, err := h.svc.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	req.ApplyTo(def)
	if err := h.svc.Update(c.Request.Context(), def); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromTypeDef(def))
}

// Delete removes a stored type definition.
// DELETE /api/v1/types/:name
func (h *TypeDefHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("name")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Format formats a model value of the named type for output.
// POST /api/v1/types/:name/format
func (h *TypeDefHandler) Format(c *gin.Context) {
	var req dto.FormatValueRequest
	if !h.BindJSON(c, &req) {
		return
	}

	out, err := h.svc.FormatValue(c.Request.Context(), c.Param("name"), req.Value, types.Kind(req.Target))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.ValueResponse{Value: out})
}

// Parse converts external input of the named type to a model value.
// POST /api/v1/types/:name/parse
func (h *TypeDefHandler) Parse(c *gin.Context) {
	var req dto.ParseValueRequest
	if !h.BindJSON(c, &req) {
		return
	}

	out, err := h.svc.ParseValue(c.Request.Context(), c.Param("name"), req.Value, types.Kind(req.Source))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.ValueResponse{Value: out})
}

// Validate checks a model value against the named type's constraints.
// Constraint violations are reported in the body with 200, not as
// transport errors; only unknown types and internal failures fail the
// request.
// POST /api/v1/types/:name/validate
func (h *TypeDefHandler) Validate(c *gin.Context) {
	var req dto.ValidateValueRequest
	if !h.BindJSON(c, &req) {
		return
	}

	err := h.svc.ValidateValue(c.Request.Context(), c.Param("name"), req.Value)
	if err == nil {
		h.OK(c, dto.ValidationResponse{Valid: true})
		return
	}

	if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeValidation {
		h.OK(c, dto.ValidationResponse{
			Valid:   false,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		})
		return
	}

	h.HandleError(c, err)
}

// SetLocale switches the service locale.
// PUT /api/v1/settings/locale
func (h *TypeDefHandler) SetLocale(c *gin.Context) {
	var req dto.SetLocaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.svc.SetLocale(c.Request.Context(), req.Locale); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "locale updated")
}
