package config

type ServiceConfig struct {
	Name                string      `yaml:"name"`
	Environment         string      `yaml:"environment"`
	Version             string      `yaml:"version"`
	ClientURL           string      `yaml:"client_url"`
	JWTSecret           string      `yaml:"jwt_secret"`
	EnableTestEndpoints bool        `yaml:"enable_test_endpoints"`
	VNPay               VNPayConfig `yaml:"vnpay"`
	SePay               SePayConfig `yaml:"sepay"`
}

type VNPayConfig struct {
	TmnCode    string `yaml:"tmn_code"`
	HashSecret string `yaml:"hash_secret"`
	PayURL     string `yaml:"pay_url"`
	ReturnURL  string `yaml:"return_url"`
	Version    string `yaml:"version"`
	Command    string `yaml:"command"`
	OrderType  string `yaml:"order_type"`
}

type SePayConfig struct {
	APIKey        string `yaml:"api_key"`
	AccountNumber string `yaml:"account_number"`
	AccountName   string `yaml:"account_name"`
	BankCode      string `yaml:"bank_code"`
	Endpoint      string `yaml:"endpoint"`
}
