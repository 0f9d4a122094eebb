package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/remote"
	"github.com/dmitrijs2005/fieldsync/internal/client/routing"
	"github.com/dmitrijs2005/fieldsync/internal/client/store"
	"github.com/dmitrijs2005/fieldsync/internal/common"
)

type SurveyService struct {
	r         *routing.Router
	api       remote.SurveysAPI
	surveys   store.EntityStore[models.Survey]
	questions store.DocumentStore[[]models.QuestionData]
	responses store.DocumentStore[[]models.ResponseData]

	// serializes read-modify-write of the question and response documents
	mu sync.Mutex
}

func NewSurveyService(api remote.SurveysAPI, d Deps) *SurveyService {
	return &SurveyService{
		r:         d.router(models.EntitySurvey),
		api:       api,
		surveys:   store.NewCollection[models.Survey](d.Repos.Entities, models.EntitySurvey),
		questions: store.NewDocuments[[]models.QuestionData](d.Repos.Documents, models.DocSurveyQuestions),
		responses: store.NewDocuments[[]models.ResponseData](d.Repos.Documents, models.DocQuestionResponses),
	}
}

// List returns every survey. Online results are mirrored together with
// their questions and responses so the drill-down works offline.
func (s *SurveyService) List(ctx context.Context) ([]models.Survey, error) {
	return routing.Read(ctx, s.r, "list", routing.ReadOp[[]models.Survey]{
		Remote: s.api.ListSurveys,
		Local:  s.DatabaseSurveys,
		Mirror: s.mirrorSurveys,
	})
}

func (s *SurveyService) mirrorSurveys(ctx context.Context, surveys []models.Survey) error {
	if err := s.surveys.UpsertMany(ctx, surveys); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sv := range surveys {
		if err := s.questions.Put(ctx, store.IDKey(sv.ID), sv.QuestionDatas); err != nil {
			return err
		}
		for _, q := range sv.QuestionDatas {
			if err := s.responses.Put(ctx, store.IDKey(q.QuestionID), q.ResponseDatas); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *SurveyService) DatabaseSurveys(ctx context.Context) ([]models.Survey, error) {
	page, err := s.surveys.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return page.PageItems, nil
}

// QuestionDatas reads the cached questions of a survey. A survey without
// cached questions yields an empty slice.
func (s *SurveyService) QuestionDatas(ctx context.Context, surveyID int64) ([]models.QuestionData, error) {
	return readList(ctx, s.questions, store.IDKey(surveyID))
}

// ResponseDatas reads the cached responses of a question.
func (s *SurveyService) ResponseDatas(ctx context.Context, questionID int64) ([]models.ResponseData, error) {
	return readList(ctx, s.responses, store.IDKey(questionID))
}

func readList[T any](ctx context.Context, docs store.DocumentStore[[]T], key string) ([]T, error) {
	items, err := docs.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s *SurveyService) SaveToCache(ctx context.Context, sv models.Survey) (models.Survey, error) {
	if err := s.surveys.Upsert(ctx, sv); err != nil {
		return models.Survey{}, err
	}
	return sv, nil
}

// SaveQuestionData stores q under its survey, replacing a question with the
// same id.
func (s *SurveyService) SaveQuestionData(ctx context.Context, surveyID int64, q models.QuestionData) (models.QuestionData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := store.IDKey(surveyID)
	items, err := readList(ctx, s.questions, key)
	if err != nil {
		return models.QuestionData{}, err
	}
	items = replaceOrAppend(items, q, func(a, b models.QuestionData) bool { return a.QuestionID == b.QuestionID })
	if err := s.questions.Put(ctx, key, items); err != nil {
		return models.QuestionData{}, err
	}
	return q, nil
}

// SaveResponseData stores r under its question, replacing a response with
// the same id.
func (s *SurveyService) SaveResponseData(ctx context.Context, questionID int64, r models.ResponseData) (models.ResponseData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := store.IDKey(questionID)
	items, err := readList(ctx, s.responses, key)
	if err != nil {
		return models.ResponseData{}, err
	}
	items = replaceOrAppend(items, r, func(a, b models.ResponseData) bool { return a.ResponseID == b.ResponseID })
	if err := s.responses.Put(ctx, key, items); err != nil {
		return models.ResponseData{}, err
	}
	return r, nil
}

func replaceOrAppend[T any](items []T, v T, same func(a, b T) bool) []T {
	for i := range items {
		if same(items[i], v) {
			items[i] = v
			return items
		}
	}
	return append(items, v)
}

func (s *SurveyService) Get(ctx context.Context, surveyID int64) (models.Survey, error) {
	return routing.Remote(ctx, s.r, "get", func(ctx context.Context) (models.Survey, error) {
		return s.api.GetSurvey(ctx, surveyID)
	})
}

func (s *SurveyService) SubmitScore(ctx context.Context, surveyID int64, sc models.Scorecard) (models.Scorecard, error) {
	return routing.Remote(ctx, s.r, "submit_score", func(ctx context.Context) (models.Scorecard, error) {
		return s.api.SubmitScore(ctx, surveyID, sc)
	})
}
