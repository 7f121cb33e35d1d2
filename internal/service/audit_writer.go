package service

import (
	"context"
	"encoding/json"

	"productattrs/internal/model"
	"productattrs/internal/repository"
)

// writeAuditLog records an audit entry inside the caller's transaction context.
func writeAuditLog(ctx context.Context, repo repository.AuditRepository, userID, action, entityID, entityName string, details interface{}) error {
	payload, _ := json.Marshal(details)
	return repo.Log(ctx, &model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	})
}
