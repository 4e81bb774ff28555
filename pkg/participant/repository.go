package participant

import (
	"go.uber.org/zap"
)

// Repository keeps the accepted drivers and riders in the caller's order.
type Repository struct {
	drivers  []Participant
	riders   []Participant
	byID     map[int64]Participant
	rejected []*DataError
}

// NewRepository validates every participant and keeps the valid ones, preserving order.
// Invalid participants are logged and collected, never fatal.
func NewRepository(drivers, riders []Participant, validator *Validator, log *zap.Logger) *Repository {
	repo := &Repository{
		drivers: make([]Participant, 0, len(drivers)),
		riders:  make([]Participant, 0, len(riders)),
		byID:    make(map[int64]Participant, len(drivers)+len(riders)),
	}

	outOfBounds := 0
	admit := func(p Participant, role Role, dst *[]Participant) {
		p.Role = role
		if err := validator.Validate(p); err != nil {
			repo.reject(err.(*DataError), log)
			return
		}
		if _, dup := repo.byID[p.ID]; dup {
			repo.reject(&DataError{ID: p.ID, Role: role, Field: "id", Err: ErrDuplicateID}, log)
			return
		}
		if validator.OutOfBounds(p) {
			outOfBounds++
		}
		repo.byID[p.ID] = p
		*dst = append(*dst, p)
	}

	for _, d := range drivers {
		admit(d, Driver, &repo.drivers)
	}
	for _, r := range riders {
		admit(r, Rider, &repo.riders)
	}

	if outOfBounds > 0 {
		log.Warn("participants outside service area", zap.Int("count", outOfBounds))
	}
	log.Info("participant repository ready",
		zap.Int("drivers", len(repo.drivers)),
		zap.Int("riders", len(repo.riders)),
		zap.Int("rejected", len(repo.rejected)))
	return repo
}

func (r *Repository) reject(err *DataError, log *zap.Logger) {
	log.Warn("rejecting participant",
		zap.Int64("id", err.ID), zap.String("role", err.Role.String()), zap.Error(err))
	r.rejected = append(r.rejected, err)
}

func (r *Repository) Drivers() []Participant {
	return r.drivers
}

func (r *Repository) Riders() []Participant {
	return r.riders
}

func (r *Repository) Get(id int64) (Participant, bool) {
	p, ok := r.byID[id]
	return p, ok
}

func (r *Repository) Rejected() []*DataError {
	return r.rejected
}
