package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/heartguard/internal/bmi"
	"github.com/Skufu/heartguard/internal/profile"
	"github.com/Skufu/heartguard/internal/simulate"
)

// Error codes returned in the "error" field.
const (
	codeInvalidPayload   = "invalid_payload"
	codePayloadTooLarge  = "payload_too_large"
	codeValidationFailed = "validation_failed"
	codeUnknownVariant   = "unknown_variant"
	codeAssessmentFailed = "assessment_failed"
)

func abortWith(c *gin.Context, status int, code string, details ...string) {
	body := gin.H{"error": code}
	if len(details) > 0 {
		body["details"] = details
	}
	c.AbortWithStatusJSON(status, body)
}

// variant resolves the :variant path parameter, falling back to the
// registry default when the route has none.
func (s *Server) variant(c *gin.Context) (profile.Variant, bool) {
	name := c.Param("variant")
	if name == "" {
		return s.registry.Default(), true
	}
	v, err := profile.ParseVariant(name)
	if err != nil {
		abortWith(c, http.StatusNotFound, codeUnknownVariant, err.Error())
		return "", false
	}
	if _, err := s.registry.Engine(v); err != nil {
		abortWith(c, http.StatusNotFound, codeUnknownVariant, err.Error())
		return "", false
	}
	return v, true
}

func (s *Server) getSchema(c *gin.Context) {
	v, ok := s.variant(c)
	if !ok {
		return
	}
	sch, err := profile.Lookup(v)
	if err != nil {
		abortWith(c, http.StatusNotFound, codeUnknownVariant, err.Error())
		return
	}
	c.JSON(http.StatusOK, sch.JSONSchema())
}

func (s *Server) postAssessment(c *gin.Context) {
	v, ok := s.variant(c)
	if !ok {
		return
	}

	data, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWith(c, http.StatusRequestEntityTooLarge, codePayloadTooLarge)
			return
		}
		abortWith(c, http.StatusBadRequest, codeInvalidPayload, err.Error())
		return
	}
	raw, err := profile.DecodeJSON(data)
	if err != nil {
		abortWith(c, http.StatusBadRequest, codeInvalidPayload, err.Error())
		return
	}

	result, err := s.registry.AssessRaw(v, raw)
	if err != nil {
		var ve *profile.ValidationError
		switch {
		case errors.As(err, &ve):
			abortWith(c, http.StatusUnprocessableEntity, codeValidationFailed, ve.Problems...)
		case errors.Is(err, profile.ErrUnknownVariant):
			abortWith(c, http.StatusNotFound, codeUnknownVariant, err.Error())
		default:
			s.logger.Error("assessment failed", zap.String("variant", string(v)), zap.Error(err))
			abortWith(c, http.StatusInternalServerError, codeAssessmentFailed)
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

type bmiRequest struct {
	Weight *float64 `json:"weight"`
	Height *float64 `json:"height"`
}

type bmiResponse struct {
	BMI      bmi.Result    `json:"bmi"`
	Guidance *bmi.Guidance `json:"guidance,omitempty"`
	Notice   string        `json:"notice,omitempty"`
}

func (s *Server) postBMI(c *gin.Context) {
	var req bmiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, codeInvalidPayload, err.Error())
		return
	}
	var missing []string
	if req.Weight == nil {
		missing = append(missing, "weight: required")
	}
	if req.Height == nil {
		missing = append(missing, "height: required")
	}
	if len(missing) > 0 {
		abortWith(c, http.StatusUnprocessableEntity, codeValidationFailed, missing...)
		return
	}

	resp := bmiResponse{BMI: bmi.Calculate(*req.Weight, *req.Height)}
	if g, ok := bmi.GuidanceFor(resp.BMI.Category); ok {
		resp.Guidance = &g
	} else {
		resp.Notice = "weight and height must both be positive to compute BMI"
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) postSimulation(c *gin.Context) {
	var sc simulate.Scenario
	if err := c.ShouldBindJSON(&sc); err != nil {
		abortWith(c, http.StatusBadRequest, codeInvalidPayload, err.Error())
		return
	}
	result, err := simulate.Run(sc)
	if err != nil {
		var ve *simulate.ValidationError
		if errors.As(err, &ve) {
			abortWith(c, http.StatusUnprocessableEntity, codeValidationFailed, ve.Problems...)
			return
		}
		abortWith(c, http.StatusInternalServerError, codeAssessmentFailed)
		return
	}
	c.JSON(http.StatusOK, result)
}
