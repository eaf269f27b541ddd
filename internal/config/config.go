package config

type Config struct {
	Checkpoint struct {
		// sqlite检查点库的路径,实例锁文件在同目录下
		Path string `json:"path"`
	} `json:"checkpoint"`

	Elasticsearch struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Address  string `json:"address"`
	} `json:"elasticsearch"`

	// Browser 列表页浏览器后端,可选 chromedp | rod
	Browser string `json:"browser"`

	Chromedp struct {
		LifeTime             int    `json:"life_time"`
		UserDataDir          string `json:"user_data_dir"`
		Headless             bool   `json:"headless"`
		DisableBlinkFeatures string `json:"disable_blink_features"`
		Incognito            bool   `json:"incognito"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox"`
		UserAgent            string `json:"user_agent"`
	} `json:"chromedp"`

	Rod struct {
		UserDataDir          string `json:"user_data_dir"`
		Headless             bool   `json:"headless"`
		DisableBlinkFeatures string `json:"disable_blink_features"`
		Incognito            bool   `json:"incognito"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox"`
		UserAgent            string `json:"user_agent"`
		Leakless             bool   `json:"leakless"`
		Bin                  string `json:"bin"`
	} `json:"rod"`

	Detail struct {
		// 公开详情页抓取的限速,每秒请求数与突发量
		RatePerSecond float64 `json:"rate_per_second"`
		Burst         int     `json:"burst"`
		UserAgent     string  `json:"user_agent"`
	} `json:"detail"`

	LLM struct {
		// Provider 可选 ollama | gemini
		Provider     string `json:"provider"`
		Host         string `json:"host"`
		Port         int    `json:"port"`
		Model        string `json:"model"`
		GeminiAPIKey string `json:"gemini_api_key"`
	} `json:"llm"`

	Embedder struct {
		Host      string `json:"host"`
		Port      int    `json:"port"`
		Model     string `json:"model"`
		BatchSize int    `json:"batch_size"`
	} `json:"embedder"`

	Export struct {
		// 输出文件目录
		Dir string `json:"dir"`
	} `json:"export"`
}
