package schedule

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk-api/internal/handler"
	"github.com/frontdesk/frontdesk-api/internal/model"
	scheduleService "github.com/frontdesk/frontdesk-api/internal/service/schedule"
)

type Handler struct {
	service *scheduleService.Service
}

func NewHandler(service *scheduleService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	schedules := r.Group("/schedules")
	{
		schedules.GET("/:id", h.GetSchedule)
		schedules.GET("/:id/appointments", h.ListAppointments)
		schedules.POST("/:id/appointments", h.BookAppointment)
		schedules.PUT("/:id/appointments/:appointmentId", h.RescheduleAppointment)
		schedules.DELETE("/:id/appointments/:appointmentId", h.CancelAppointment)
	}
	r.GET("/clinics/:clinicId/schedule", h.GetClinicSchedule)
}

func (h *Handler) GetSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid schedule ID"))
		return
	}

	schedule, err := h.service.GetSchedule(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.NewScheduleResponse(schedule)))
}

func (h *Handler) GetClinicSchedule(c *gin.Context) {
	var query struct {
		ClinicID int `uri:"clinicId" binding:"required,gt=0"`
	}
	if err := c.ShouldBindUri(&query); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date"))
			return
		}
		date = parsed
	}

	schedule, err := h.service.GetClinicSchedule(c.Request.Context(), query.ClinicID, date)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.NewScheduleResponse(schedule)))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid schedule ID"))
		return
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	responses := make([]model.AppointmentResponse, 0, len(appointments))
	for _, appointment := range appointments {
		responses = append(responses, model.NewAppointmentResponse(appointment))
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(responses))
}

func (h *Handler) BookAppointment(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid schedule ID"))
		return
	}

	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	req.ScheduleID = scheduleID

	appointment, err := h.service.BookAppointment(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(model.NewAppointmentResponse(appointment)))
}

func (h *Handler) RescheduleAppointment(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid schedule ID"))
		return
	}
	appointmentID, err := uuid.Parse(c.Param("appointmentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	appointment, err := h.service.RescheduleAppointment(c.Request.Context(), scheduleID, appointmentID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.NewAppointmentResponse(appointment)))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid schedule ID"))
		return
	}
	appointmentID, err := uuid.Parse(c.Param("appointmentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.service.CancelAppointment(c.Request.Context(), scheduleID, appointmentID); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
