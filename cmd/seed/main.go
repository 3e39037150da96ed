package main

import (
	"fmt"

	"github.com/numora-app/numora-api/internal/config"
	"github.com/numora-app/numora-api/internal/logger"
	"github.com/numora-app/numora-api/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	seedVideos(stdLogf(stdLog.Printf))
	seedFaqs(stdLogf(stdLog.Printf))
	seedNumbers(stdLogf(stdLog.Printf))

	stdLog.Println("Seed completed")
}

type stdLogf func(format string, v ...interface{})

func seedVideos(logf stdLogf) {
	videos := []models.Video{
		{
			TitleEN:       "Welcome to Numora",
			TitleIT:       "Benvenuto in Numora",
			DescriptionEN: "A short introduction to the app and what the numbers mean.",
			DescriptionIT: "Una breve introduzione all'app e al significato dei numeri.",
			URL:           "https://cdn.numora.app/videos/welcome.mp4",
			PreviewURL:    "https://cdn.numora.app/videos/welcome.jpg",
			SortOrder:     1,
		},
		{
			TitleEN:       "How your number is calculated",
			TitleIT:       "Come viene calcolato il tuo numero",
			DescriptionEN: "The day of your birth reduced to a single guiding number.",
			DescriptionIT: "Il giorno della tua nascita ridotto a un unico numero guida.",
			URL:           "https://cdn.numora.app/videos/calculation.mp4",
			PreviewURL:    "https://cdn.numora.app/videos/calculation.jpg",
			SortOrder:     2,
		},
	}
	for _, video := range videos {
		var count int64
		models.DB.Model(&models.Video{}).Where("url = ?", video.URL).Count(&count)
		if count > 0 {
			continue
		}
		if err := models.DB.Create(&video).Error; err != nil {
			logf("seed video %q failed: %v", video.TitleEN, err)
		}
	}
	fmt.Println("✓ videos")
}

func seedFaqs(logf stdLogf) {
	faqs := []models.Faq{
		{
			QuestionEN: "What is my number?",
			QuestionIT: "Qual è il mio numero?",
			AnswerEN:   "Your number is derived from the day of the month you were born.",
			AnswerIT:   "Il tuo numero deriva dal giorno del mese in cui sei nato.",
			SortOrder:  1,
		},
		{
			QuestionEN: "Why did I not receive a verification code?",
			QuestionIT: "Perché non ho ricevuto il codice di verifica?",
			AnswerEN:   "Check your spam folder. A new code can be requested after one minute.",
			AnswerIT:   "Controlla la cartella spam. Un nuovo codice può essere richiesto dopo un minuto.",
			SortOrder:  2,
		},
		{
			QuestionEN: "How do I delete my account?",
			QuestionIT: "Come elimino il mio account?",
			AnswerEN:   "Use the delete option in your profile. You will confirm with an emailed code.",
			AnswerIT:   "Usa l'opzione elimina nel tuo profilo. Confermerai con un codice inviato via email.",
			SortOrder:  3,
		},
	}
	for _, faq := range faqs {
		var count int64
		models.DB.Model(&models.Faq{}).Where("question_en = ?", faq.QuestionEN).Count(&count)
		if count > 0 {
			continue
		}
		if err := models.DB.Create(&faq).Error; err != nil {
			logf("seed faq %q failed: %v", faq.QuestionEN, err)
		}
	}
	fmt.Println("✓ faqs")
}

func seedNumbers(logf stdLogf) {
	numbers := []models.Number{
		{Value: 1, TitleEN: "The Leader", TitleIT: "Il Leader", DescriptionEN: "Independence, initiative and drive.", DescriptionIT: "Indipendenza, iniziativa e determinazione."},
		{Value: 2, TitleEN: "The Diplomat", TitleIT: "Il Diplomatico", DescriptionEN: "Balance, partnership and sensitivity.", DescriptionIT: "Equilibrio, collaborazione e sensibilità."},
		{Value: 3, TitleEN: "The Creator", TitleIT: "Il Creatore", DescriptionEN: "Expression, optimism and imagination.", DescriptionIT: "Espressione, ottimismo e immaginazione."},
		{Value: 4, TitleEN: "The Builder", TitleIT: "Il Costruttore", DescriptionEN: "Stability, discipline and patience.", DescriptionIT: "Stabilità, disciplina e pazienza."},
		{Value: 5, TitleEN: "The Explorer", TitleIT: "L'Esploratore", DescriptionEN: "Freedom, change and adventure.", DescriptionIT: "Libertà, cambiamento e avventura."},
		{Value: 6, TitleEN: "The Nurturer", TitleIT: "Il Protettore", DescriptionEN: "Care, responsibility and harmony.", DescriptionIT: "Cura, responsabilità e armonia."},
		{Value: 7, TitleEN: "The Seeker", TitleIT: "Il Cercatore", DescriptionEN: "Analysis, introspection and wisdom.", DescriptionIT: "Analisi, introspezione e saggezza."},
		{Value: 8, TitleEN: "The Achiever", TitleIT: "Il Realizzatore", DescriptionEN: "Ambition, power and abundance.", DescriptionIT: "Ambizione, potere e abbondanza."},
		{Value: 9, TitleEN: "The Humanitarian", TitleIT: "L'Umanitario", DescriptionEN: "Compassion, completion and generosity.", DescriptionIT: "Compassione, completamento e generosità."},
		{Value: 10, TitleEN: "The Visionary", TitleIT: "Il Visionario", DescriptionEN: "Confidence, renewal and potential.", DescriptionIT: "Fiducia, rinnovamento e potenziale."},
		{Value: 11, TitleEN: "The Intuitive", TitleIT: "L'Intuitivo", DescriptionEN: "Insight, inspiration and idealism.", DescriptionIT: "Intuizione, ispirazione e idealismo."},
	}
	for _, number := range numbers {
		var count int64
		models.DB.Model(&models.Number{}).Where("value = ?", number.Value).Count(&count)
		if count > 0 {
			continue
		}
		if err := models.DB.Create(&number).Error; err != nil {
			logf("seed number %d failed: %v", number.Value, err)
		}
	}
	fmt.Println("✓ numbers")
}
