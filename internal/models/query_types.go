// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeRequisitionDetails   QueryType = "requisition_details"
	QueryTypeCandidateCVs         QueryType = "candidate_cvs"
	QueryTypeExistingApplications QueryType = "existing_applications"
	QueryTypeVerificationStatuses QueryType = "verification_statuses"
	QueryTypeSkillCatalog         QueryType = "skill_catalog"
	QueryTypeSeniorityLevel       QueryType = "seniority_level"
)
