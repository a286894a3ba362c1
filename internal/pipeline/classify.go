package pipeline

import (
	"context"
	"errors"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/classify"
	"github.com/joseph-ayodele/catalog-extractor/internal/common"
)

// Classify looks up the HSN code and GST slab of one product.
func (s *Service) Classify(ctx context.Context, req ClassifyRequest) (classify.Record, error) {
	if err := common.ValidateStruct(req); err != nil {
		s.recorder.ObservePipeline(NameClassify, constants.OutcomeInvalid)
		return classify.Record{}, err
	}
	rec, err := s.classifier.Classify(ctx, classify.Input{
		ProductName: req.ProductName,
		Brand:       req.Brand,
		Category:    req.Category,
		Unit:        req.Unit,
	})
	switch {
	case errors.Is(err, common.ErrValidation):
		s.recorder.ObservePipeline(NameClassify, constants.OutcomeInvalid)
		return classify.Record{}, err
	case err != nil:
		s.recorder.ObservePipeline(NameClassify, constants.OutcomeFailed)
		return classify.Record{}, err
	case rec.Failed:
		s.recorder.ObservePipeline(NameClassify, constants.OutcomeSentinel)
	default:
		s.recorder.ObservePipeline(NameClassify, constants.OutcomeOK)
	}
	return rec, nil
}
