// The write pipeline never creates users, so local development and
// benchmarks need this seeder to provision some: it inserts fake users
// into postgres and registers their access tokens in the redis set the
// pipeline authenticates against.
package main

import (
	"context"
	goflag "flag"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/kracekumar/postpipe/model"
	"github.com/kracekumar/postpipe/utils"
	"github.com/kracekumar/postpipe/utils/dotenv"
	"github.com/kracekumar/postpipe/utils/flag"
	. "github.com/kracekumar/postpipe/utils/log"
)

var userCount = goflag.Int("users", 10, "number of fake users to create")

func main() {
	flag.Parse()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	InitLogger()

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect to database: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	cache, err := utils.GetRedisTokenCache()
	if err != nil {
		Log.Fatal("fail to connect to token cache: ", err)
	}
	defer cache.Close()

	ctx := context.Background()
	for i := 0; i < *userCount; i++ {
		user := model.User{
			Email:       gofakeit.Email(),
			AccessToken: gofakeit.LetterN(24),
		}
		if err := db.Create(&user).Error; err != nil {
			Log.Error("fail to create user: ", err)
			continue
		}
		if err := cache.Add(ctx, user.AccessToken); err != nil {
			Log.Fatal("fail to register token in cache: ", err)
		}
		fmt.Printf("user %d: %s token=%s\n", user.Id, user.Email, user.AccessToken)
	}
}
