package database

import (
	"testing"

	"yellow-taxi-trips/config"
)

func TestDSN(t *testing.T) {
	cfg := config.DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "taxi", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=taxi sslmode=disable"
	if got := DSN(cfg); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}

func TestURL(t *testing.T) {
	cfg := config.DBConfig{Host: "db", Port: "5432", User: "u", Password: "p@ss", DBName: "taxi", SSLMode: "disable"}
	want := "postgres://u:p%40ss@db:5432/taxi?sslmode=disable"
	if got := URL(cfg); got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
}
