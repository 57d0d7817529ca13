package mariadb

import (
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"sync"

	"github.com/benhvien-dev/baocao-backend/config"
	_ "github.com/go-sql-driver/mysql"
)

var (
	db   *sql.DB
	once sync.Once
)

// Connect mở kết nối tới MariaDB. Thông tin kết nối lấy từ .env qua config.
func Connect() *sql.DB {
	once.Do(func() {
		cfg := config.LoadConfig()
		// parseTime để scan cột DATE/DATETIME thành time.Time,
		// loc để mốc ngày khớp với múi giờ báo cáo.
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=%s",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
			url.QueryEscape(cfg.Timezone))

		var err error
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			log.Fatalf("Không mở được kết nối database: %v", err)
		}

		if err = db.Ping(); err != nil {
			log.Fatalf("Không ping được database: %v", err)
		}

		log.Println("Đã kết nối MariaDB.")
	})

	return db
}

// GetDB trả về kết nối database đã khởi tạo.
func GetDB() *sql.DB {
	return db
}
