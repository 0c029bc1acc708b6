package services

import (
	"github.com/google/uuid"
	"github.com/maxaizer/job-finder/internal/clients/empllo"
	"github.com/maxaizer/job-finder/internal/entities"
	"github.com/samber/lo"
	"strconv"
	"sync/atomic"
)

// IDGenerator mints job ids. Ids are session scoped: they are not persisted and
// a refresh mints new ones for the same postings.
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator is a monotonic generator, handy where readable ids matter.
type SequenceGenerator struct {
	prefix string
	next   atomic.Uint64
}

func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

func (g *SequenceGenerator) NewID() string {
	return g.prefix + strconv.FormatUint(g.next.Add(1), 10)
}

func assignIdentities(ids IDGenerator, postings []empllo.JobPosting) []entities.Job {
	return lo.Map(postings, func(posting empllo.JobPosting, _ int) entities.Job {
		return entities.Job{
			ID:           ids.NewID(),
			Title:        posting.Title,
			MainCategory: posting.MainCategory,
			CompanyName:  posting.CompanyName,
			JobType:      posting.JobType,
		}
	})
}
