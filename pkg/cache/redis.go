package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"quizbank/internal/models"
)

const examTTL = 24 * time.Hour

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *RedisCache) SetCatalog(exams []models.ExamSummary) error {
	data, err := json.Marshal(exams)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, "exams:catalog", data, examTTL).Err()
}

func (c *RedisCache) GetCatalog() ([]models.ExamSummary, error) {
	data, err := c.client.Get(c.ctx, "exams:catalog").Bytes()
	if err != nil {
		return nil, err
	}

	var exams []models.ExamSummary
	err = json.Unmarshal(data, &exams)
	return exams, err
}

func (c *RedisCache) SetExam(exam *models.ExamDetail) error {
	data, err := json.Marshal(exam)
	if err != nil {
		return err
	}

	key := examKey(exam.ExamID)
	return c.client.Set(c.ctx, key, data, examTTL).Err()
}

func (c *RedisCache) GetExam(examID uint) (*models.ExamDetail, error) {
	data, err := c.client.Get(c.ctx, examKey(examID)).Bytes()
	if err != nil {
		return nil, err
	}

	var exam models.ExamDetail
	err = json.Unmarshal(data, &exam)
	return &exam, err
}

// InvalidateExam drops the exam tree and the catalog listing. Called after
// any admin write touching the exam's question set.
func (c *RedisCache) InvalidateExam(examID uint) error {
	return c.client.Del(c.ctx, examKey(examID), "exams:catalog").Err()
}

func examKey(examID uint) string {
	return fmt.Sprintf("exam:%d", examID)
}
