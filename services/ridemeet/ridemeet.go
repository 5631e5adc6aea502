package main

import (
	"net/http"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"

	"github.com/gorilla/mux"

	"github.com/ridemeet/ridemeet/core/csql"
	"github.com/ridemeet/ridemeet/core/logger"
	"github.com/ridemeet/ridemeet/rest"
)

// Service holds the configuration for this service
//
// use POSTGRES="host=localhost port=5432 user=postgres dbname=postgres sslmode=disable"
type Service struct {
	Postgres         string `env:"POSTGRES,required" description:"the connection string for the Postgres DB"`
	PostgresPassword string `env:"POSTGRES_PASSWORD,optional" description:"password for the Postgres DB, added to the connection string"`
	SecretKey        string `env:"SECRET_KEY,required" description:"the signing key for credential tokens"`
	Port             string `env:"PORT,default=3000" description:"the port to listen on"`
	BcryptCost       int    `env:"BCRYPT_COST,default=0" description:"the bcrypt work factor, 0 means the library default"`
	LogLevel         string `env:"LOG_LEVEL,default=info" description:"the log level"`
}

func main() {
	service := &Service{}
	if err := envdecode.Decode(service); err != nil {
		panic(err)
	}

	level, err := logrus.ParseLevel(service.LogLevel)
	if err != nil {
		panic(err)
	}
	logger.InitLogger(level)

	db := csql.OpenWithSchema(service.Postgres, service.PostgresPassword, "ridemeet")
	defer db.Close()

	router := mux.NewRouter()
	rest.New(&rest.Builder{
		DB:         db,
		Router:     router,
		Secret:     service.SecretKey,
		BcryptCost: service.BcryptCost,
	})

	logger.Default().Infoln("listen on port :" + service.Port)
	logger.Default().Fatal(http.ListenAndServe(":"+service.Port, router))
}
