package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// MongoUnitOfWork runs a function inside a MongoDB transaction. Transactions need a replica
// set; with transactional disabled fn runs directly and relies on versioned writes alone.
type MongoUnitOfWork struct {
	client        *mongo.Client
	transactional bool
}

// NewUnitOfWork creates a unit of work bound to db's client.
func NewUnitOfWork(db *MongoDB, transactional bool) *MongoUnitOfWork {
	return &MongoUnitOfWork{client: db.Client, transactional: transactional}
}

// Transactional reports whether Do opens a real transaction.
func (u *MongoUnitOfWork) Transactional() bool {
	return u.transactional
}

// Do runs fn. Inside a transaction the driver retries fn on transient errors, so fn must
// not have effects outside the database.
func (u *MongoUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if !u.transactional {
		return fn(ctx)
	}

	session, err := u.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetWriteConcern(writeconcern.Majority()).
		SetReadConcern(readconcern.Snapshot())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, txnOpts)
	return err
}
