package repository

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/jupiterclapton/plume/internal/core/ports"
)

// Neo4jGraphRepo stocke les arêtes de suivi dans Neo4j. MERGE rend la
// création idempotente : deux Follow simultanés pour la même paire laissent
// une seule arête, sans erreur visible.
type Neo4jGraphRepo struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jGraphRepo(driver neo4j.DriverWithContext) *Neo4jGraphRepo {
	return &Neo4jGraphRepo{driver: driver}
}

var _ ports.GraphRepository = (*Neo4jGraphRepo)(nil)

// EnsureSchema crée la contrainte d'unicité sur User.id (lookups O(1)).
func (r *Neo4jGraphRepo) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`
		_, err := tx.Run(ctx, query, nil)
		return nil, err
	})
	return err
}

func (r *Neo4jGraphRepo) CreateRelation(ctx context.Context, userID, authorID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// MERGE crée les noeuds s'ils n'existent pas et la flèche si elle
		// n'existe pas ; une arête déjà présente n'est jamais dupliquée.
		query := `
			MERGE (u:User {id: $userId})
			MERGE (a:User {id: $authorId})
			MERGE (u)-[r:FOLLOWS]->(a)
			ON CREATE SET r.created_at = datetime()
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"userId":   userID,
			"authorId": authorID,
		})
		return nil, err
	})
	return err
}

func (r *Neo4jGraphRepo) DeleteRelation(ctx context.Context, userID, authorID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// MATCH sans résultat = rien à supprimer, pas une erreur.
		query := `
			MATCH (u:User {id: $userId})-[r:FOLLOWS]->(a:User {id: $authorId})
			DELETE r
		`
		_, err := tx.Run(ctx, query, map[string]any{"userId": userID, "authorId": authorID})
		return nil, err
	})
	return err
}

func (r *Neo4jGraphRepo) HasRelation(ctx context.Context, userID, authorID string) (bool, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			RETURN EXISTS {
				MATCH (:User {id: $userId})-[:FOLLOWS]->(:User {id: $authorId})
			} AS following
		`
		res, err := tx.Run(ctx, query, map[string]any{"userId": userID, "authorId": authorID})
		if err != nil {
			return false, err
		}

		if res.Next(ctx) {
			following, _ := res.Record().Get("following")
			return following.(bool), nil
		}
		return false, res.Err()
	})

	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func (r *Neo4jGraphRepo) ListFollowedIDs(ctx context.Context, userID string) ([]string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `MATCH (:User {id: $userId})-[:FOLLOWS]->(a:User) RETURN a.id AS authorId`
		res, err := tx.Run(ctx, query, map[string]any{"userId": userID})
		if err != nil {
			return nil, err
		}

		ids := []string{}
		for res.Next(ctx) {
			id, _ := res.Record().Get("authorId")
			ids = append(ids, id.(string))
		}
		return ids, res.Err()
	})

	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}
