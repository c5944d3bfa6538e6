package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"eventdesk/config"
	"eventdesk/infras/kafka"
	"eventdesk/infras/otel"
	"eventdesk/infras/s3"
	"eventdesk/internal/domains/booking/conflict"
	"eventdesk/internal/domains/booking/model"
	"eventdesk/internal/domains/booking/model/dto"
	"eventdesk/internal/domains/booking/repository"
	"eventdesk/shared"
	"eventdesk/shared/cache"
	"eventdesk/shared/constant"
	gDto "eventdesk/shared/dto"
	"eventdesk/shared/failure"
	"eventdesk/shared/timezone"
	"eventdesk/shared/validator"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking      = "booking:get"
	cacheGetAllBooking   = "booking:gets"
	cacheCountBooking    = "booking:count"
	cacheCalendarBooking = "booking:calendar"

	attachmentDirectory = "bookings"
)

// blockingStatuses are the statuses that hold a slot. Rejected bookings never block.
var blockingStatuses = []string{model.StatusPending, model.StatusApproved}

var errForbiddenBooking = failure.Forbidden("you can only access your own bookings")

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Mine(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Calendar(ctx context.Context, month string) (dto.CalendarResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) error
	UploadAttachment(ctx context.Context, id string, file *multipart.FileHeader) (dto.AttachmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo   repository.Booking
	cfg    *config.Config
	cache  cache.RedisCache
	s3     s3.S3
	events kafka.Client
	otel   otel.Otel
}

func New(repo repository.Booking, cfg *config.Config, cache cache.RedisCache, s3 s3.S3, events kafka.Client, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:   repo,
		cfg:    cfg,
		cache:  cache,
		s3:     s3,
		events: events,
		otel:   otel,
	}
}

func sessionUser(ctx context.Context) (id, role string) {
	id, _ = ctx.Value(constant.ContextKeyUserID).(string)
	role, _ = ctx.Value(constant.ContextKeyUserRole).(string)

	return id, role
}

func isAdmin(role string) bool {
	return role == constant.RoleAdmin || role == constant.RoleSuperAdmin
}

// toFailure turns validator outcomes into HTTP failures.
func toFailure(err error) error {
	switch {
	case errors.Is(err, conflict.ErrInvalidTimeOrder):
		return failure.BadRequest(err) //nolint:wrapcheck
	case errors.Is(err, conflict.ErrSchedulingConflict):
		return failure.Conflict(err.Error()) //nolint:wrapcheck
	default:
		return err
	}
}

// checkSchedule loads the bookings that could block the proposal and runs the
// conflict check against them.
func (s *serviceImpl) checkSchedule(ctx context.Context, proposal conflict.Proposal, isEditMode bool, excludeID string, statuses ...string) error {
	// time order needs no snapshot
	if err := conflict.ValidateRange(proposal, nil, isEditMode, excludeID); err != nil {
		return toFailure(err)
	}

	end := proposal.EndDate
	if isEditMode {
		end = proposal.StartDate
	}

	existing, err := s.repo.GetAll(ctx, gDto.QueryParams{}, dto.SnapshotFilter(proposal.StartDate, end, statuses...))
	if err != nil {
		log.Error().Err(err).Msg("failed to load booking snapshot")

		return fmt.Errorf("failed to load booking snapshot: %w", err)
	}

	if err := conflict.ValidateRange(proposal, model.ToConflicts(existing), isEditMode, excludeID); err != nil {
		log.Info().Err(err).Str("excludeID", excludeID).Msg("booking rejected by conflict check")

		return toFailure(err)
	}

	return nil
}

func (s *serviceImpl) publish(ctx context.Context, eventType string, booking model.Booking, actor string) {
	message := kafka.Message{
		Key:   booking.ID,
		Type:  eventType,
		Value: dto.NewBookingEvent(eventType, booking, actor),
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.events.SendMessages(c, s.cfg.Booking.EventsTopic, message); err != nil {
			log.Error().Err(err).Str("type", eventType).Str("bookingID", booking.ID).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking, cacheCountBooking, cacheCalendarBooking, constant.CachePrefixEvents)
	}()
}

// find returns the stored booking or a not found failure.
func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound(model.EntityName) //nolint:wrapcheck
	}

	return booking, nil
}

// findOwned is find plus the rule that only admins touch other users' bookings.
func (s *serviceImpl) findOwned(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return booking, err
	}

	return booking, authorize(ctx, booking.CreatedBy)
}

// authorize lets admins through and everyone else only to their own bookings.
func authorize(ctx context.Context, owner string) error {
	user, role := sessionUser(ctx)
	if !isAdmin(role) && owner != user {
		return errForbiddenBooking
	}

	return nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := sessionUser(ctx)

	booking, err := req.ToModel(user)
	if err != nil {
		return res, err
	}

	if err = s.checkSchedule(ctx, booking.ToProposal(), false, constant.Empty, blockingStatuses...); err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.invalidate(ctx, constant.Empty)
	s.publish(ctx, dto.EventTypeCreated, booking, user)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, gDto.QueryParams{}, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Mine(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error) {
	user, _ := sessionUser(ctx)
	if user == constant.Empty {
		return dto.GetBookingsResponse{}, failure.Unauthorized("login required") //nolint:wrapcheck
	}

	filter := dto.BookingFilter{CreatedBy: user}

	return s.GetAll(ctx, req, filter.ToFilterGroup())
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		if err = authorize(ctx, res.CreatedBy); err != nil {
			return dto.BookingResponse{}, err
		}

		return res, nil
	}

	booking, err := s.findOwned(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Calendar(ctx context.Context, month string) (res dto.CalendarResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Calendar")
	defer scope.End()
	defer scope.TraceIfError(&err)

	first := timezone.Now()
	if month != constant.Empty {
		first, err = time.Parse(constant.MonthLayout, month)
		if err != nil {
			return res, failure.BadRequestFromString("month must be formatted as YYYY-MM") //nolint:wrapcheck
		}
	}

	// dates are stored without a zone; compare on the UTC calendar day
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	cacheKey := shared.BuildCacheKey(cacheCalendarBooking, first.Format(constant.MonthLayout))

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking calendar")

		return res, nil
	}

	params := gDto.QueryParams{SortBy: model.FieldStartDate, SortDir: gDto.SortDirAsc}

	models, err := s.repo.GetAll(ctx, params, dto.MonthFilter(first))
	if err != nil {
		log.Error().Err(err).Msg("failed to get calendar bookings")

		return res, fmt.Errorf("failed to get calendar bookings: %w", err)
	}

	res.FromModels(first, models)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking calendar to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	current, err := s.findOwned(ctx, id)
	if err != nil {
		return err
	}

	merged, err := req.Merge(current)
	if err != nil {
		return err
	}

	if req.ChangesSchedule() {
		if err = s.checkSchedule(ctx, merged.ToProposal(), true, id, blockingStatuses...); err != nil {
			return err
		}
	}

	user, role := sessionUser(ctx)
	fields := req.Fields(user)

	// a rescheduled approval has to be approved again
	if req.ChangesSchedule() && !isAdmin(role) && current.Status == model.StatusApproved {
		fields[model.FieldStatus] = model.StatusPending
		merged.Status = model.StatusPending
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	s.invalidate(ctx, id)
	s.publish(ctx, dto.EventTypeUpdated, merged, user)

	return nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, role := sessionUser(ctx)
	if !isAdmin(role) {
		return failure.ForbiddenError
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	// an approved booking must still be free against the other approved ones
	if req.Status == model.StatusApproved && booking.Status != model.StatusApproved {
		if err = s.checkSchedule(ctx, booking.ToProposal(), true, id, model.StatusApproved); err != nil {
			return err
		}
	}

	if err = s.repo.Update(ctx, req.Fields(user), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	booking.Status = req.Status

	s.invalidate(ctx, id)
	s.publish(ctx, req.EventType(), booking, user)

	return nil
}

func (s *serviceImpl) UploadAttachment(ctx context.Context, id string, file *multipart.FileHeader) (res dto.AttachmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadAttachment")
	defer scope.End()
	defer scope.TraceIfError(&err)

	contentType, err := validator.ValidateFile(file, dto.AttachmentContentTypes, float64(s.cfg.Booking.AttachmentMaxSizeMB))
	if err != nil {
		return res, err
	}

	booking, err := s.findOwned(ctx, id)
	if err != nil {
		return res, err
	}

	body, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("failed to open attachment")

		return res, fmt.Errorf("failed to open attachment: %w", err)
	}
	defer body.Close()

	url, err := s.s3.Upload(ctx, s3.Object{
		Directory:   attachmentDirectory + "/" + id,
		Name:        attachmentName(file.Filename),
		ContentType: contentType,
		Size:        file.Size,
		Body:        body,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to upload attachment")

		return res, fmt.Errorf("failed to upload attachment: %w", err)
	}

	user, _ := sessionUser(ctx)
	fields := map[string]any{
		model.FieldAttachment:    url,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to save attachment")

		return res, fmt.Errorf("failed to save attachment: %w", err)
	}

	if booking.Attachment != constant.Empty && booking.Attachment != url {
		s.removeObject(ctx, booking.Attachment)
	}

	s.invalidate(ctx, id)

	return dto.AttachmentResponse{ID: id, Attachment: url}, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.findOwned(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if booking.Attachment != constant.Empty {
		s.removeObject(ctx, booking.Attachment)
	}

	user, _ := sessionUser(ctx)

	s.invalidate(ctx, id)
	s.publish(ctx, dto.EventTypeDeleted, booking, user)

	return nil
}

// removeObject deletes a stored attachment. The row no longer points at it,
// so failures are only logged.
func (s *serviceImpl) removeObject(ctx context.Context, url string) {
	key := s.s3.ObjectKeyFromURL(url)
	if key == constant.Empty {
		return
	}

	if err := s.s3.Delete(ctx, key); err != nil {
		log.Error().Err(err).Str("objectKey", key).Msg("failed to delete attachment object")
	}
}

// attachmentName keeps the extension and a cleaned base name, prefixed with
// the upload time so replacements never reuse a key.
func attachmentName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	base = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			return r
		}

		return '_'
	}, base)

	if base == constant.Empty {
		base = "attachment"
	}

	return fmt.Sprintf("%d-%s%s", timezone.Now().UnixNano(), base, ext)
}
