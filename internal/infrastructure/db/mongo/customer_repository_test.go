package mongo

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
)

func TestCustomerDoc_ToDomain(t *testing.T) {
	oid := primitive.NewObjectID()
	crm := "C1"
	d := customerDoc{ID: oid, Codigo: 3, CodigoCRM: &crm, Nome: "Ana", Status: "ativo"}

	c := d.toDomain()
	if c.ID != oid.Hex() {
		t.Fatalf("expected id %s, got %s", oid.Hex(), c.ID)
	}
	if c.Codigo == nil || *c.Codigo != 3 {
		t.Fatalf("expected codigo 3, got %v", c.Codigo)
	}
	if c.Email != nil || c.Telefone != nil {
		t.Errorf("absent optional fields must stay nil")
	}
	if c.Status != domain.CustomerActive {
		t.Errorf("expected status ativo, got %q", c.Status)
	}
}

func TestKeyFilter(t *testing.T) {
	f := keyFilter(domain.KeyEmail, "ana@x.io", "")
	if f["email"] != "ana@x.io" {
		t.Fatalf("expected email filter, got %v", f)
	}
	if _, ok := f["_id"]; ok {
		t.Errorf("no exclusion expected without an id")
	}

	oid := primitive.NewObjectID()
	f = keyFilter(domain.KeyCodigoCRM, "C1", oid.Hex())
	ne, ok := f["_id"].(bson.M)
	if !ok || ne["$ne"] != oid {
		t.Errorf("expected _id $ne exclusion, got %v", f["_id"])
	}
}

func TestUpdateDoc(t *testing.T) {
	crm := "C1"
	update := updateDoc(&domain.Customer{CodigoCRM: &crm, Nome: "Ana"})

	set := update["$set"].(bson.M)
	if set["codigo_crm"] != "C1" || set["nome"] != "Ana" {
		t.Errorf("unexpected $set: %v", set)
	}
	if _, ok := set["status"]; ok {
		t.Errorf("empty status must keep the stored value")
	}
	unset := update["$unset"].(bson.M)
	if _, ok := unset["email"]; !ok {
		t.Errorf("absent email must be unset, got %v", unset)
	}

	update = updateDoc(&domain.Customer{Nome: "Ana", Status: domain.CustomerInactive})
	if update["$set"].(bson.M)["status"] != "inativo" {
		t.Errorf("expected status to be set")
	}
}

func TestUserFromDoc(t *testing.T) {
	oid := primitive.NewObjectID()
	u := userFromDoc(bson.M{"_id": oid, "status": "ativo", "nome": "Ana"})
	if u.ID != oid.Hex() {
		t.Fatalf("expected id %s, got %s", oid.Hex(), u.ID)
	}
	if !u.Active() {
		t.Errorf("expected active user")
	}
	if u.Profile["nome"] != "Ana" || u.Profile["id"] != oid.Hex() {
		t.Errorf("unexpected profile: %v", u.Profile)
	}
	if _, ok := u.Profile["_id"]; ok {
		t.Errorf("_id must be renamed to id")
	}
}

func TestUserFilter(t *testing.T) {
	if f := userFilter("u1"); f["_id"] != "u1" {
		t.Errorf("plain ids filter by string, got %v", f)
	}
	oid := primitive.NewObjectID()
	if _, ok := userFilter(oid.Hex())["$or"]; !ok {
		t.Errorf("hex ids match either representation")
	}
}

func TestDuplicateKey(t *testing.T) {
	cases := map[string]domain.BusinessKey{
		"E11000 duplicate key error collection: bluepay.clientes index: email_key dup key":      domain.KeyEmail,
		"E11000 duplicate key error collection: bluepay.clientes index: codigo_crm_key dup key": domain.KeyCodigoCRM,
		"E11000 duplicate key error collection: bluepay.clientes index: codigo_1 dup key":       "",
	}
	for msg, want := range cases {
		if got := duplicateKey(errors.New(msg)); got != want {
			t.Errorf("duplicateKey(%q) = %q, want %q", msg, got, want)
		}
	}
}

func TestCustomerIndexes_UniqueOnlyOnProfileKey(t *testing.T) {
	cases := []struct {
		profile domain.ValidationProfile
		unique  string
		plain   string
	}{
		{domain.ProfileCRM, "codigo_crm", "email"},
		{domain.ProfileEmail, "email", "codigo_crm"},
	}

	for _, tc := range cases {
		t.Run(string(tc.profile), func(t *testing.T) {
			seen := map[string]bool{}
			for _, idx := range customerIndexes(tc.profile) {
				field := idx.Keys.(bson.D)[0].Key
				unique := idx.Options != nil && idx.Options.Unique != nil && *idx.Options.Unique
				seen[field] = unique
			}
			if !seen[tc.unique] {
				t.Errorf("expected a unique index on %s", tc.unique)
			}
			if isUnique, ok := seen[tc.plain]; !ok || isUnique {
				t.Errorf("expected a plain index on %s, got unique=%v present=%v", tc.plain, isUnique, ok)
			}
			if !seen["codigo"] {
				t.Errorf("codigo must stay unique")
			}
		})
	}
}
