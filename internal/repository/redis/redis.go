package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("refresh token not found")

type Storage struct {
	db         *redis.Client
	refreshTTL time.Duration
}

func InitRedis(connStr, redisPassword, redisDbNumber string, refreshTTL time.Duration) (*Storage, error) {
	dbNumber, err := strconv.Atoi(redisDbNumber)
	if err != nil {
		return nil, err
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     connStr,
		Username: "",
		Password: redisPassword,
		DB:       dbNumber,
	})
	return &Storage{db: redisClient, refreshTTL: refreshTTL}, nil
}

var ctx = context.Background()

func (s *Storage) StoreRefreshToken(userID, refreshToken string) error {
	err := s.db.Set(ctx, refreshToken, userID, s.refreshTTL).Err()
	if err != nil {
		return err
	}

	return nil
}

func (s *Storage) GetRefreshToken(refreshToken string) (string, error) {
	userID, err := s.db.Get(ctx, refreshToken).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", err
	}

	return userID, nil
}
