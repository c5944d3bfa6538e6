package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"cmp"
	"context"
	"eventdesk/config"
	"eventdesk/infras/otel"
	"eventdesk/internal/domains/booking/model"
	bookingRepo "eventdesk/internal/domains/booking/repository"
	"eventdesk/internal/domains/event/model/dto"
	"eventdesk/shared"
	"eventdesk/shared/cache"
	"eventdesk/shared/constant"
	gDto "eventdesk/shared/dto"
	"eventdesk/shared/timezone"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
)

type Event interface {
	GetAll(ctx context.Context, filter string) (dto.GetEventsResponse, error)
}

type serviceImpl struct {
	repo  bookingRepo.Booking
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo bookingRepo.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Event {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// startsAt places the booking's first day and start time in the application timezone.
func startsAt(booking model.Booking) time.Time {
	clock, err := time.Parse(constant.ClockLayout, booking.StartTime)
	if err != nil {
		clock = time.Time{}
	}

	year, month, day := booking.StartDate.Date()

	return time.Date(year, month, day, clock.Hour(), clock.Minute(), 0, 0, timezone.GetLocation())
}

func approvedFilter(filter string, today string) gDto.FilterGroup {
	group := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusApproved, Operator: gDto.FilterOperatorEq},
		},
	}

	switch filter {
	case dto.FilterUpcoming:
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldStartDate, Value: today, Operator: gDto.FilterOperatorGreaterEq})
	case dto.FilterToday:
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldStartDate, Value: today, Operator: gDto.FilterOperatorEq})
	}

	return group
}

func (s *serviceImpl) GetAll(ctx context.Context, filter string) (res dto.GetEventsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Events")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter, err = dto.ParseFilter(filter)
	if err != nil {
		return res, err
	}

	now := timezone.Now()
	today := now.Format(constant.DayLayout)

	// upcoming depends on the clock, so only the day-scoped filters are cached
	cacheKey := shared.BuildCacheKey(constant.CachePrefixEvents, filter, today)
	cacheable := filter != dto.FilterUpcoming

	if cacheable {
		if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
			log.Info().Str("cacheKey", cacheKey).Msg("cache hit for events")

			return res, nil
		}
	}

	bookings, err := s.repo.GetAll(ctx, gDto.QueryParams{}, approvedFilter(filter, today))
	if err != nil {
		log.Error().Err(err).Msg("failed to get events")

		return res, fmt.Errorf("failed to get events: %w", err)
	}

	if filter == dto.FilterUpcoming {
		bookings = slices.DeleteFunc(bookings, func(booking model.Booking) bool {
			return startsAt(booking).Before(now)
		})
	}

	slices.SortStableFunc(bookings, func(a, b model.Booking) int {
		return cmp.Or(startsAt(a).Compare(startsAt(b)), cmp.Compare(a.ID, b.ID))
	})

	if err = res.FromModels(filter, bookings); err != nil {
		log.Error().Err(err).Msg("failed to map events")

		return res, err
	}

	if cacheable {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save events to cache")
			}
		}()
	}

	return res, nil
}
