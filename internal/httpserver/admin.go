package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"smartcart/internal/logging"
	"smartcart/internal/service"
	"smartcart/internal/transport"
)

type AdminHTTP struct {
	Svc *service.AdminService
}

func (h *AdminHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_users")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		l.Error("get_users_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "error fetching users")
	}

	return c.JSON(http.StatusOK, users)
}

func (h *AdminHTTP) UpdateUserRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_user_role")

	userID, err := pathID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req transport.UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_role_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.UpdateUserRole(ctx, userID, req.Role); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		default:
			l.Error("update_role_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "error updating role")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Role updated"})
}

func (h *AdminHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_order_status")

	orderID, err := pathID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.UpdateOrderStatus(ctx, orderID, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		default:
			l.Error("update_status_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "error updating order status")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Order status updated"})
}

func (h *AdminHTTP) GetStatistics(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_statistics")

	stats, err := h.Svc.OrderStatistics(ctx)
	if err != nil {
		l.Error("get_statistics_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "error fetching statistics")
	}

	return c.JSON(http.StatusOK, stats)
}
