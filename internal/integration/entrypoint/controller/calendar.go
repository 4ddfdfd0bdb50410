package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/installment-tracker/backend/internal/application/usecase/calendar"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
	"github.com/installment-tracker/backend/internal/integration/entrypoint/dto"
)

// CalendarController handles the monthly calendar endpoint.
type CalendarController struct {
	getUseCase *calendar.GetCalendarUseCase
}

// NewCalendarController creates a new calendar controller instance.
func NewCalendarController(getUseCase *calendar.GetCalendarUseCase) *CalendarController {
	return &CalendarController{getUseCase: getUseCase}
}

// Get handles GET /calendar?year=&month= requests.
func (c *CalendarController) Get(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	year, err := strconv.Atoi(ctx.Query("year"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "year is required and must be an integer",
			Code:  string(domainerror.ErrCodeInvalidYear),
		})
		return
	}
	month, err := strconv.Atoi(ctx.Query("month"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "month is required and must be an integer",
			Code:  string(domainerror.ErrCodeInvalidMonth),
		})
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), calendar.GetCalendarInput{
		UserID: userID,
		Year:   year,
		Month:  month,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCalendarResponse(output))
}
