package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-mailroom/mailroom/internal/apierr"
	"github.com/go-mailroom/mailroom/internal/model"
)

func TestDispatchAddIsLastWriteWins(t *testing.T) {
	s := NewStore()

	s.Dispatch(AddOrganization{Organization: model.Organization{Id: "org_1", Name: "Acme"}})
	s.Dispatch(AddOrganization{Organization: model.Organization{Id: "org_1", Name: "Acme Inc"}})

	require.Len(t, s.Organizations, 1)
	assert.Equal(t, "Acme Inc", s.Organizations["org_1"].Name)
}

func TestDispatchRemoveIsIdempotent(t *testing.T) {
	s := NewStore()
	s.Dispatch(AddProject{Project: model.Project{Id: "prj_1", OrgId: "org_1", Name: "transactional"}})

	s.Dispatch(RemoveProject{Id: "prj_1"})
	assert.Empty(t, s.Projects)

	// second remove must not panic or change anything
	s.Dispatch(RemoveProject{Id: "prj_1"})
	assert.Empty(t, s.Projects)
}

func TestDispatchPreservesOrder(t *testing.T) {
	s := NewStore()

	// remove-then-add replace pair, order must hold
	s.Dispatch(
		AddDomain{Domain: model.Domain{Id: "dom_1", Name: "old.example.com"}},
	)
	s.Dispatch(
		RemoveDomain{Id: "dom_1"},
		AddDomain{Domain: model.Domain{Id: "dom_1", Name: "new.example.com"}},
	)

	require.Len(t, s.Domains, 1)
	assert.Equal(t, "new.example.com", s.Domains["dom_1"].Name)
}

func TestCredentialSecretNeverStored(t *testing.T) {
	s := NewStore()

	s.Dispatch(AddCredential{Credential: model.SmtpCredential{
		Id:       "cred_1",
		StreamId: "str_1",
		Username: "smtp-user",
		Password: "s3cret",
	}})
	s.Dispatch(AddApiKey{ApiKey: model.ApiKey{
		Id:       "key_1",
		OrgId:    "org_1",
		Role:     model.RoleAdmin,
		Password: "k3y-s3cret",
	}})

	assert.Empty(t, s.Credentials["cred_1"].Password)
	assert.Empty(t, s.ApiKeys["key_1"].Password)
}

func TestSetApiKeyRole(t *testing.T) {
	s := NewStore()
	s.Dispatch(AddApiKey{ApiKey: model.ApiKey{Id: "key_1", Role: model.RoleViewer}})

	s.Dispatch(SetApiKeyRole{Id: "key_1", Role: model.RoleAdmin})
	assert.Equal(t, model.RoleAdmin, s.ApiKeys["key_1"].Role)

	// unknown id is a no-op
	s.Dispatch(SetApiKeyRole{Id: "key_404", Role: model.RoleAdmin})
	assert.Len(t, s.ApiKeys, 1)
}

func TestMembersKeyedByCompositeIdentity(t *testing.T) {
	s := NewStore()

	s.Dispatch(
		AddMember{Member: model.Member{UserId: "usr_1", OrgId: "org_1", Role: model.RoleMember}},
		AddMember{Member: model.Member{UserId: "usr_1", OrgId: "org_2", Role: model.RoleOwner}},
	)
	require.Len(t, s.Members, 2)

	s.Dispatch(SetMemberRole{Key: model.MemberKey{UserId: "usr_1", OrgId: "org_1"}, Role: model.RoleAdmin})
	assert.Equal(t, model.RoleAdmin, s.Members[model.MemberKey{UserId: "usr_1", OrgId: "org_1"}].Role)
	assert.Equal(t, model.RoleOwner, s.Members[model.MemberKey{UserId: "usr_1", OrgId: "org_2"}].Role)

	s.Dispatch(RemoveMember{Key: model.MemberKey{UserId: "usr_1", OrgId: "org_2"}})
	assert.Len(t, s.Members, 1)
}

func TestEmailMetadataUpgradeKeepsBody(t *testing.T) {
	s := NewStore()

	s.Dispatch(AddEmailMetadata{Metadata: model.EmailMetadata{Id: "em_1", Status: model.EmailStatusQueued}})
	require.Contains(t, s.Emails, "em_1")
	assert.Empty(t, s.Emails["em_1"].TextBody)

	// upgrade to full record on the same id
	s.Dispatch(AddEmail{Email: model.Email{
		EmailMetadata: model.EmailMetadata{Id: "em_1", Status: model.EmailStatusSent},
		TextBody:      "hello",
	}})
	assert.Equal(t, "hello", s.Emails["em_1"].TextBody)

	// a later list refresh replaces metadata but keeps the fetched body
	s.Dispatch(AddEmailMetadata{Metadata: model.EmailMetadata{Id: "em_1", Status: model.EmailStatusSent, Subject: "hi"}})
	assert.Equal(t, "hello", s.Emails["em_1"].TextBody)
	assert.Equal(t, "hi", s.Emails["em_1"].Subject)
}

func TestUpdateEmailShallowMerge(t *testing.T) {
	s := NewStore()
	s.Dispatch(AddEmailMetadata{Metadata: model.EmailMetadata{
		Id:       "em_1",
		Status:   model.EmailStatusFailed,
		Attempts: 1,
		Subject:  "welcome",
	}})

	status := model.EmailStatusQueued
	attempts := 2
	s.Dispatch(UpdateEmail{Id: "em_1", Patch: model.EmailPatch{Status: &status, Attempts: &attempts}})

	e := s.Emails["em_1"]
	assert.Equal(t, model.EmailStatusQueued, e.Status)
	assert.Equal(t, 2, e.Attempts)
	assert.Equal(t, "welcome", e.Subject) // untouched field survives

	// merge against a non-resident id is a no-op
	s.Dispatch(UpdateEmail{Id: "em_404", Patch: model.EmailPatch{Status: &status}})
	assert.Len(t, s.Emails, 1)
}

func TestRoutedErrorSlot(t *testing.T) {
	s := NewStore()
	require.Nil(t, s.RoutedError)

	s.Dispatch(SetRoutedError{Err: apierr.NotFound("invite", "inv_1")})
	require.NotNil(t, s.RoutedError)
	assert.Equal(t, 404, s.RoutedError.Status)

	s.Dispatch(ClearRoutedError{})
	assert.Nil(t, s.RoutedError)
}
