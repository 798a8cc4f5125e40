package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "talentgate-backend/internal/model"
	"talentgate-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users and pipeline entities
var (
	TestAdminUser    m.User
	TestReviewerUser m.User
	TestViewerUser   m.User

	// Add exported plain password
	TestSeedPassword = "SeedPass123!"

	TestPerson1 m.Person
	TestPerson2 m.Person

	// TestApplication1 sits at APPLICATION, TestApplication2 at
	// SPECIALIZED_COMPETENCIES, TestApplication3 at INTERVIEW.
	TestApplication1 m.Application
	TestApplication2 m.Application
	TestApplication3 m.Application

	TestGeneralCompetency     m.CompetencyDefinition
	TestSpecializedCompetency m.CompetencyDefinition
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample users, competency definitions, persons and
// applications at representative stages if the database is empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	// Ignore admin user that got create during NewDBInstance
	if userCount > 1 {
		return loadTestData(db)
	}

	// Pre-hash shared password for all seeded users
	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	users := []m.User{
		{Email: "admin@talentgate.test", Name: "Seed Admin", Password: hashedPwd, IsAdmin: true, HasAccess: true},
		{Email: "reviewer@talentgate.test", Name: "Seed Reviewer", Password: hashedPwd, HasAccess: true},
		{Email: "viewer@talentgate.test", Name: "Seed Viewer", Password: hashedPwd},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}
	TestAdminUser = users[0]
	TestReviewerUser = users[1]
	TestViewerUser = users[2]

	competencies := []m.CompetencyDefinition{
		{
			Name:          "General Aptitude",
			Type:          m.AssessmentGeneral,
			PassThreshold: 70,
		},
		{
			Name:          "Backend Engineering",
			Type:          m.AssessmentSpecialized,
			PassThreshold: 75,
			Positions:     pq.StringArray{"Backend Engineer"},
		},
	}
	if err := db.Create(&competencies).Error; err != nil {
		return err
	}
	TestGeneralCompetency = competencies[0]
	TestSpecializedCompetency = competencies[1]

	phone1 := "+66810000001"
	persons := []m.Person{
		{Email: "alice@example.com", FirstName: "Alice", LastName: "Nguyen", Phone: &phone1},
		{Email: "bob@example.com", FirstName: "Bob", LastName: "Somsak"},
	}
	if err := db.Create(&persons).Error; err != nil {
		return err
	}
	TestPerson1 = persons[0]
	TestPerson2 = persons[1]

	// Bob already passed general competencies.
	gcScore := 82.5
	gcPassed := true
	gcDone := time.Now().Add(-48 * time.Hour)
	if err := db.Model(&m.Person{}).Where("id = ?", TestPerson2.ID).Updates(map[string]interface{}{
		"general_score":        gcScore,
		"general_passed":       gcPassed,
		"general_completed_at": gcDone,
	}).Error; err != nil {
		return err
	}
	TestPerson2.GeneralScore = &gcScore
	TestPerson2.GeneralPassed = &gcPassed
	TestPerson2.GeneralCompletedAt = &gcDone

	applications := []m.Application{
		{
			Position:     "Backend Engineer",
			CurrentStage: m.StageApplication,
			Status:       m.StatusActive,
			PersonID:     TestPerson1.ID,
		},
		{
			Position:     "Backend Engineer",
			CurrentStage: m.StageSpecializedCompetencies,
			Status:       m.StatusActive,
			PersonID:     TestPerson2.ID,
		},
		{
			Position:     "Data Engineer",
			CurrentStage: m.StageInterview,
			Status:       m.StatusActive,
			PersonID:     TestPerson2.ID,
		},
	}
	if err := db.Create(&applications).Error; err != nil {
		return err
	}
	TestApplication1 = applications[0]
	TestApplication2 = applications[1]
	TestApplication3 = applications[2]

	// Bob's GENERAL assessment backing the mirrored person columns.
	general := m.Assessment{
		Type:              m.AssessmentGeneral,
		Competency:        TestGeneralCompetency.Name,
		Score:             gcScore,
		Threshold:         TestGeneralCompetency.PassThreshold,
		Passed:            &gcPassed,
		TallySubmissionID: "seed-general-bob",
		PersonID:          TestPerson2.ID,
		CompletedAt:       gcDone,
	}
	if err := db.Create(&general).Error; err != nil {
		return err
	}

	// An unreviewed SPECIALIZED assessment on application 2.
	specialized := m.Assessment{
		Type:              m.AssessmentSpecialized,
		Competency:        TestSpecializedCompetency.Name,
		Score:             78,
		Threshold:         TestSpecializedCompetency.PassThreshold,
		TallySubmissionID: "seed-specialized-bob",
		PersonID:          TestPerson2.ID,
		ApplicationID:     &TestApplication2.ID,
		CompletedAt:       time.Now().Add(-24 * time.Hour),
	}
	if err := db.Create(&specialized).Error; err != nil {
		return err
	}

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var users []m.User
	if err := db.Where("email IN ?", []string{
		"admin@talentgate.test", "reviewer@talentgate.test", "viewer@talentgate.test",
	}).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		switch u.Email {
		case "admin@talentgate.test":
			TestAdminUser = u
		case "reviewer@talentgate.test":
			TestReviewerUser = u
		case "viewer@talentgate.test":
			TestViewerUser = u
		}
	}

	_ = db.First(&TestGeneralCompetency, "name = ?", "General Aptitude").Error
	_ = db.First(&TestSpecializedCompetency, "name = ?", "Backend Engineering").Error
	_ = db.First(&TestPerson1, "email = ?", "alice@example.com").Error
	_ = db.First(&TestPerson2, "email = ?", "bob@example.com").Error

	var apps []m.Application
	if err := db.Order("id ASC").Limit(3).Find(&apps).Error; err == nil {
		if len(apps) > 0 {
			TestApplication1 = apps[0]
		}
		if len(apps) > 1 {
			TestApplication2 = apps[1]
		}
		if len(apps) > 2 {
			TestApplication3 = apps[2]
		}
	}

	return nil
}
