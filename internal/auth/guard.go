package auth

import (
	apperrors "github.com/petsafe/pettag-service/pkg/util"
)

// AuthorizeOwner is the single authorization predicate of the service: the
// authenticated subject must equal the resource's recorded owner. It is
// applied to every operation that reads or mutates an owned resource; the
// anonymous public projection never routes through it.
//
// A nil principal also fails: the caller required authentication but none
// was resolved. The domain has exactly one privilege tier, so there is no
// role or capability check beyond this equality.
func AuthorizeOwner(principal *Principal, ownerID string) error {
	if principal == nil || principal.SubjectID != ownerID {
		return apperrors.NewForbidden("you do not have access to this resource")
	}
	return nil
}
