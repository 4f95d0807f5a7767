package user

import (
	"net/http"
	"strings"

	"hotel/infras/otel"
	"hotel/internal/domains/user/model"
	"hotel/internal/domains/user/model/dto"
	"hotel/internal/domains/user/service"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/validator"
	"hotel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const querySearch = "search"

// Handler serves staff account administration. Every route is admin only, see permissions.json.
type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/users", func(staff chi.Router) {
		staff.Post("/", handler.CreateStaff)
		staff.Get("/", handler.ListStaff)

		staff.Route("/{id}", func(account chi.Router) {
			account.Get("/", handler.GetStaff)
			account.Put("/", handler.UpdateStaff)
			account.Delete("/", handler.DeleteStaff)
		})
	})
}

// CreateStaff opens a staff account.
// @Summary Create a staff account
// @Description Role defaults to staff. Username and email must be unused.
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "New account"
// @Success 201 {object} response.Data[dto.UserResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error "username or email taken"
// @Router /v1/users [post]
// @Security BearerAuth
func (handler *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateStaff")
	defer scope.End()

	req := dto.CreateUserRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	account, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("username", req.Username).Msg("staff account not created")

		response.WithError(w, err)

		return
	}

	scope.SetAttribute("user.id", account.ID)

	response.WithJSON(w, http.StatusCreated, account)
}

// ListStaff pages through staff accounts.
// @Summary List staff accounts
// @Tags User
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param role query string false "admin, manager or staff"
// @Param active query boolean false "Active flag"
// @Param search query string false "Matches username, full name or email"
// @Success 200 {object} response.Data[dto.GetUsersResponse]
// @Failure 400 {object} response.Error
// @Router /v1/users [get]
// @Security BearerAuth
func (handler *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListStaff")
	defer scope.End()

	params := gDto.QueryParams{}
	params.FromRequest(r, true)

	filter, err := staffFilter(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	accounts, err := handler.service.GetAll(ctx, params, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list staff accounts")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, accounts)
}

func staffFilter(r *http.Request) (gDto.FilterGroup, error) {
	query := r.URL.Query()
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if role := query.Get(model.FieldRole); role != constant.Empty {
		if err := validator.ValidateVar(role, "oneof=admin manager staff"); err != nil {
			return filter, failure.Validation(model.FieldRole, "role must be one of admin, manager, staff") // nolint:wrapcheck
		}

		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldRole, Operator: gDto.FilterOperatorEq, Value: role, Table: model.TableName})
	}

	if active := shared.ConvertStringToBool(query.Get(model.FieldActive)); active != nil {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldActive, Operator: gDto.FilterOperatorEq, Value: *active, Table: model.TableName})
	}

	if search := strings.TrimSpace(query.Get(querySearch)); search != constant.Empty {
		anyOf := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorOr}

		for _, field := range []string{model.FieldUsername, model.FieldFullName, model.FieldEmail} {
			anyOf.Filters = append(anyOf.Filters, gDto.Filter{
				ArgName: "search_" + field, Field: field, Operator: gDto.FilterOperatorLike, Value: search, Table: model.TableName,
			})
		}

		filter.Filters = append(filter.Filters, anyOf)
	}

	return filter, nil
}

// GetStaff returns one account.
// @Summary Get a staff account
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStaff")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	account, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, account)
}

// UpdateStaff edits contact details, role or the active flag.
// @Summary Update a staff account
// @Description Admins cannot change their own role or deactivate themselves.
// @Tags User
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Changed fields"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateStaff")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	scope.SetAttribute("user.id", id)

	req := dto.UpdateUserRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("user_id", id).Msg("staff account not updated")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Staff account updated")
}

// DeleteStaff removes an account that never created a booking.
// @Summary Delete a staff account
// @Description Users cannot delete themselves or accounts that created bookings.
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/users/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteStaff")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	scope.SetAttribute("user.id", id)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("user_id", id).Msg("staff account not deleted")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Staff account deleted")
}
