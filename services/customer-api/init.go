package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/zacki-div/resto-backend/pkg/db"
	usermanagement "github.com/zacki-div/resto-backend/pkg/user-management"
	"github.com/zacki-div/resto-backend/pkg/user-management/pwhash"
	"github.com/zacki-div/resto-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v2"

	umUtils "github.com/zacki-div/resto-backend/pkg/user-management/utils"

	userDB "github.com/zacki-div/resto-backend/pkg/db/customer-user"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_CUSTOMER_USER_DB_USERNAME = "CUSTOMER_USER_DB_USERNAME"
	ENV_CUSTOMER_USER_DB_PASSWORD = "CUSTOMER_USER_DB_PASSWORD"

	ENV_CUSTOMER_USER_JWT_SIGN_KEY = "CUSTOMER_USER_JWT_SIGN_KEY"
)

const DEFAULT_TOKEN_EXPIRES_IN = 7 * 24 * time.Hour

type CustomerApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`
	} `json:"gin_config" yaml:"gin_config"`

	// user management configs
	UserManagementConfig struct {
		PWHashing struct {
			Argon2Memory      uint32 `json:"argon2_memory" yaml:"argon2_memory"`
			Argon2Iterations  uint32 `json:"argon2_iterations" yaml:"argon2_iterations"`
			Argon2Parallelism uint8  `json:"argon2_parallelism" yaml:"argon2_parallelism"`
		} `json:"pw_hashing" yaml:"pw_hashing"`
		CustomerUserJWTConfig struct {
			SignKey   string `json:"sign_key" yaml:"sign_key"`
			ExpiresIn string `json:"expires_in" yaml:"expires_in"`
		} `json:"customer_user_jwt_config" yaml:"customer_user_jwt_config"`
		BlockedPasswordsFilePath string `json:"blocked_passwords_file_path" yaml:"blocked_passwords_file_path"`
	} `json:"user_management_config" yaml:"user_management_config"`

	// DB configs
	DBConfigs struct {
		// when true, users are kept in process memory instead of MongoDB (local development only)
		UseInMemoryUserStore bool            `json:"use_in_memory_user_store" yaml:"use_in_memory_user_store"`
		CustomerUserDB       db.DBConfigYaml `json:"customer_user_db" yaml:"customer_user_db"`
	} `json:"db_configs" yaml:"db_configs"`
}

var (
	conf           CustomerApiConfig
	userStore      usermanagement.UserStore
	tokenExpiresIn time.Duration
)

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	// Init logger:
	utils.InitLogger(
		conf.Logging.LogLevel,
		conf.Logging.IncludeSrc,
		conf.Logging.LogToFile,
		conf.Logging.Filename,
		conf.Logging.MaxSize,
		conf.Logging.MaxAge,
		conf.Logging.MaxBackups,
		conf.Logging.CompressOldLogs,
	)

	// Override secrets from environment variables
	secretsOverride()

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// init argon2
	pwhash.InitArgonParams(
		conf.UserManagementConfig.PWHashing.Argon2Memory,
		conf.UserManagementConfig.PWHashing.Argon2Iterations,
		conf.UserManagementConfig.PWHashing.Argon2Parallelism,
	)

	if conf.UserManagementConfig.BlockedPasswordsFilePath != "" {
		if err := umUtils.LoadBlockedPasswords(conf.UserManagementConfig.BlockedPasswordsFilePath); err != nil {
			panic(err)
		}
	}

	checkJWTConfig()

	initUserStore()
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_CUSTOMER_USER_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.CustomerUserDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_CUSTOMER_USER_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.CustomerUserDB.Password = dbPassword
	}

	if signKey := os.Getenv(ENV_CUSTOMER_USER_JWT_SIGN_KEY); signKey != "" {
		conf.UserManagementConfig.CustomerUserJWTConfig.SignKey = signKey
	}
}

func checkJWTConfig() {
	if conf.UserManagementConfig.CustomerUserJWTConfig.SignKey == "" {
		panic("customer user JWT sign key is not set")
	}

	tokenExpiresIn = DEFAULT_TOKEN_EXPIRES_IN
	if conf.UserManagementConfig.CustomerUserJWTConfig.ExpiresIn != "" {
		expiresIn, err := utils.ParseDurationString(conf.UserManagementConfig.CustomerUserJWTConfig.ExpiresIn)
		if err != nil {
			panic(err)
		}
		tokenExpiresIn = expiresIn
	}
}

func initUserStore() {
	if conf.DBConfigs.UseInMemoryUserStore {
		slog.Warn("using in-memory user store, all accounts are lost on restart")
		userStore = usermanagement.NewInMemoryUserStore()
		return
	}

	userDBService, err := userDB.NewCustomerUserDBService(db.DBConfigFromYamlObj(conf.DBConfigs.CustomerUserDB))
	if err != nil {
		slog.Error("Error connecting to Customer User DB", slog.String("error", err.Error()))
		panic(err)
	}
	userStore = userDBService
}
