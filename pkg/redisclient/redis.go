package redisclient

import (
	"context"
	"strconv"

	"github.com/railhop/railhop/pkg/util"
	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

const defaultConnectionAddress = "localhost:6379"
const defaultDatabase = 0

// Connect opens the shared Redis connection used by the response
// cache. The address argument wins over environment configuration.
func Connect(address string) error {
	password := ""
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if address == "" {
		address = defaultConnectionAddress
		if env["RAILHOP_REDIS_ADDRESS"] != "" {
			address = env["RAILHOP_REDIS_ADDRESS"]
		}
	}

	if env["RAILHOP_REDIS_PASSWORD"] != "" {
		password = env["RAILHOP_REDIS_PASSWORD"]
	}

	if env["RAILHOP_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["RAILHOP_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	return Client.Ping(context.Background()).Err()
}
