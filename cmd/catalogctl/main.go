// Command catalogctl is the offline catalog editor. It rewrites the
// products file in place and can publish the result through git, which
// triggers the site deploy.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/pricing"
)

const catalogFile = "data/products.json"

func main() {
	store := catalog.FileStore{Path: catalogFile}
	in := bufio.NewReader(os.Stdin)

	fmt.Println()
	fmt.Println("==========================================")
	fmt.Println("   GERENCIADOR DE PRODUTOS BEIT SHALOM")
	fmt.Println("==========================================")
	fmt.Println()

	for {
		fmt.Println("1. Listar Produtos")
		fmt.Println("2. Adicionar Novo Produto")
		fmt.Println("3. Remover Produto")
		fmt.Println("4. Editar Produto")
		fmt.Println("5. Publicar Alterações no Site (Git Push)")
		fmt.Println("6. Sair")

		switch ask(in, "\nEscolha uma opção: ") {
		case "1":
			listProducts(store)
		case "2":
			addProduct(in, store)
		case "3":
			removeProduct(in, store)
		case "4":
			editProduct(in, store)
		case "5":
			publish(in)
		case "6":
			fmt.Println("Saindo...")
			return
		default:
			fmt.Println("Opção inválida!")
		}
	}
}

func ask(in *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, err := in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func loadOrWarn(store catalog.FileStore) ([]catalog.Item, bool) {
	items, err := store.ReadAll()
	if err != nil {
		fmt.Printf("Erro ao ler o catálogo: %v\n\n", err)
		return nil, false
	}
	return items, true
}

func saveOrWarn(store catalog.FileStore, items []catalog.Item) bool {
	if err := store.WriteAll(items); err != nil {
		fmt.Printf("Erro ao gravar o catálogo: %v\n\n", err)
		return false
	}
	return true
}

func listProducts(store catalog.FileStore) {
	items, ok := loadOrWarn(store)
	if !ok {
		return
	}
	fmt.Println("\n--- Lista de Produtos ---")
	for _, p := range items {
		suffix := ""
		if p.IsDigital {
			suffix = " (Digital)"
		}
		fmt.Printf("[ID: %-3d] %s - R$ %s%s\n", p.ID, p.Name, p.Price, suffix)
	}
	fmt.Println("-------------------------")
	fmt.Printf("Total de produtos cadastrados: %d\n", len(items))
	fmt.Println("-------------------------")
	fmt.Println()
}

func addProduct(in *bufio.Reader, store catalog.FileStore) {
	items, ok := loadOrWarn(store)
	if !ok {
		return
	}
	fmt.Println("\n--- Adicionar Novo Produto ---")

	var id int64
	for {
		raw := ask(in, "Digite o ID para o novo produto (Enter usa o próximo livre): ")
		if raw == "" {
			id = catalog.NextID(items)
			break
		}
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			fmt.Println("ID inválido. Digite um número.")
			continue
		}
		if hasID(items, parsed) {
			fmt.Printf("O ID %d já existe! Tente outro.\n", parsed)
			continue
		}
		id = parsed
		break
	}
	fmt.Printf("\nCriando produto com ID: %d\n", id)

	item := catalog.Item{ID: id, Rating: 5.0}
	item.Name = ask(in, "Nome do produto: ")
	item.Category = ask(in, "Categoria: ")
	item.Price = askPrice(in, "Preço (ex: 99.90): ", 0)
	item.IsDigital = askYesNo(in, "É um produto digital? (s/n): ")
	item.Description = ask(in, "Descrição curta: ")
	item.DetailedDescription = item.Description

	image := ask(in, "URL da Imagem (Link): ")
	if image == "" {
		image = fmt.Sprintf("https://picsum.photos/800/800?random=%d", id)
	}
	item.Image = image
	item.Images = []string{image}

	askCategorySpecs(in, &item)
	if !item.IsDigital {
		askDimensions(in, &item)
	}

	items = append(items, item)
	if saveOrWarn(store, items) {
		fmt.Println("\nProduto adicionado com sucesso!")
		fmt.Println()
	}
}

func askCategorySpecs(in *bufio.Reader, item *catalog.Item) {
	lower := strings.ToLower(item.Category)
	switch {
	case strings.Contains(lower, "livro"):
		fmt.Println("\n--- Detalhes do Livro ---")
		if v := ask(in, "Tipo de capa (Dura/Mole/Brochura): "); v != "" {
			item.Specifications = append(item.Specifications, catalog.Spec{Label: "Capa", Value: v})
		}
		if v := ask(in, "Número de páginas: "); v != "" {
			item.Specifications = append(item.Specifications, catalog.Spec{Label: "Páginas", Value: v})
		}
	case strings.Contains(lower, "ritual"), strings.Contains(lower, "talit"), strings.Contains(lower, "kipá"):
		fmt.Println("\n--- Detalhes do Item Ritual ---")
		if v := ask(in, "Tipo de tecido: "); v != "" {
			item.Specifications = append(item.Specifications, catalog.Spec{Label: "Tecido", Value: v})
		}
		if v := ask(in, "Tamanho (ex: G, 60x180cm): "); v != "" {
			item.Specifications = append(item.Specifications, catalog.Spec{Label: "Tamanho", Value: v})
		}
	}
}

func askDimensions(in *bufio.Reader, item *catalog.Item) {
	fmt.Println("\n--- Dados para Cálculo de Frete ---")
	weight := askFloat(in, "Peso em kg (ex: 0.5): ", 0.3)
	fmt.Println("Dimensões da embalagem em cm:")
	height := askFloat(in, "Altura (ex: 5): ", 5)
	width := askFloat(in, "Largura (ex: 15): ", 15)
	length := askFloat(in, "Comprimento (ex: 20): ", 20)

	item.Dimensions = &catalog.Dimensions{Weight: weight, Height: height, Width: width, Length: length}
	item.Specifications = append(item.Specifications,
		catalog.Spec{Label: "Peso Aproximado", Value: fmt.Sprintf("%g kg", weight)},
		catalog.Spec{Label: "Dimensões (AxLxC)", Value: fmt.Sprintf("%gx%gx%g cm", height, width, length)},
	)
}

func removeProduct(in *bufio.Reader, store catalog.FileStore) {
	listProducts(store)
	raw := ask(in, "Digite o ID do produto para remover (ou Enter para cancelar): ")
	if raw == "" {
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Println("ID inválido.")
		return
	}
	items, ok := loadOrWarn(store)
	if !ok {
		return
	}
	idx := indexOf(items, id)
	if idx < 0 {
		fmt.Println("\nProduto não encontrado!")
		fmt.Println()
		return
	}
	if !askYesNo(in, fmt.Sprintf("\nTem certeza que deseja remover %q? (s/n): ", items[idx].Name)) {
		fmt.Println("\nOperação cancelada.")
		fmt.Println()
		return
	}
	items = append(items[:idx], items[idx+1:]...)
	if saveOrWarn(store, items) {
		fmt.Println("\nProduto removido com sucesso!")
		fmt.Println()
	}
}

func editProduct(in *bufio.Reader, store catalog.FileStore) {
	listProducts(store)
	raw := ask(in, "Digite o ID do produto para editar (ou Enter para cancelar): ")
	if raw == "" {
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Println("ID inválido.")
		return
	}
	items, ok := loadOrWarn(store)
	if !ok {
		return
	}
	idx := indexOf(items, id)
	if idx < 0 {
		fmt.Println("\nProduto não encontrado!")
		fmt.Println()
		return
	}
	item := &items[idx]

	fmt.Printf("\n--- Editando: %s ---\n", item.Name)
	fmt.Println("1. Editar Dados Básicos (Nome, Preço, Categoria, Descrição, Imagem)")
	fmt.Println("2. Gerenciar Especificações (Adicionar/Remover/Limpar)")
	fmt.Println("3. Editar Peso e Dimensões")
	fmt.Println("4. Enriquecer Descrição Detalhada")
	fmt.Println("5. Alternar entre Digital/Físico")
	fmt.Println("0. Voltar")

	switch ask(in, "\nEscolha uma opção: ") {
	case "1":
		editBasics(in, item)
	case "2":
		editSpecs(in, item)
	case "3":
		editDimensions(in, item)
	case "4":
		editDetailedDescription(in, item)
	case "5":
		if v := ask(in, fmt.Sprintf("Produto é Digital? Atual: %s (s/n): ", yesNo(item.IsDigital))); v != "" {
			item.IsDigital = strings.EqualFold(v, "s")
		}
	default:
		return
	}

	if saveOrWarn(store, items) {
		fmt.Println("\nProduto atualizado com sucesso!")
		fmt.Println()
	}
}

func editBasics(in *bufio.Reader, item *catalog.Item) {
	if v := ask(in, fmt.Sprintf("Nome (%s): ", item.Name)); v != "" {
		item.Name = v
	}
	if v := ask(in, fmt.Sprintf("Preço (%s): ", item.Price)); v != "" {
		if cents, err := pricing.ParseCents(strings.ReplaceAll(v, ",", ".")); err == nil {
			item.Price = cents
		} else {
			fmt.Println("Preço inválido, mantendo o atual.")
		}
	}
	if v := ask(in, fmt.Sprintf("Categoria (%s): ", item.Category)); v != "" {
		item.Category = v
	}
	if v := ask(in, fmt.Sprintf("Descrição Curta (%s): ", item.Description)); v != "" {
		item.Description = v
		if item.DetailedDescription == "" {
			item.DetailedDescription = v
		}
	}
	if v := ask(in, fmt.Sprintf("URL Imagem (%s): ", item.Image)); v != "" {
		item.Image = v
		item.Images = []string{v}
	}
}

func editSpecs(in *bufio.Reader, item *catalog.Item) {
	fmt.Println("\n--- Especificações Atuais ---")
	if len(item.Specifications) == 0 {
		fmt.Println("(Nenhuma especificação cadastrada)")
	}
	for i, s := range item.Specifications {
		fmt.Printf("%d. %s: %s\n", i+1, s.Label, s.Value)
	}

	fmt.Println("\nA. Adicionar nova")
	fmt.Println("R. Remover uma especificação")
	fmt.Println("L. Limpar TUDO")
	fmt.Println("V. Voltar")

	switch strings.ToLower(ask(in, "\nOpção: ")) {
	case "a":
		label := ask(in, "Nome do campo (ex: Material): ")
		value := ask(in, "Valor (ex: Algodão): ")
		if label != "" && value != "" {
			item.Specifications = append(item.Specifications, catalog.Spec{Label: label, Value: value})
		}
	case "r":
		idx, err := strconv.Atoi(ask(in, "Número da especificação para remover: "))
		if err == nil && idx >= 1 && idx <= len(item.Specifications) {
			item.Specifications = append(item.Specifications[:idx-1], item.Specifications[idx:]...)
			fmt.Println("Removido.")
		}
	case "l":
		if askYesNo(in, "Tem certeza que deseja apagar TODAS as especificações? (s/n): ") {
			item.Specifications = nil
			fmt.Println("Especificações limpas.")
		}
	}
}

func editDimensions(in *bufio.Reader, item *catalog.Item) {
	fmt.Println("\n--- Editar Peso e Dimensões ---")
	if item.Dimensions == nil {
		item.Dimensions = &catalog.Dimensions{}
	}
	d := item.Dimensions
	if v := ask(in, fmt.Sprintf("Peso (%g kg): ", d.Weight)); v != "" {
		d.Weight = parseFloat(v, d.Weight)
	}
	if v := ask(in, fmt.Sprintf("Altura (%g cm): ", d.Height)); v != "" {
		d.Height = parseFloat(v, d.Height)
	}
	if v := ask(in, fmt.Sprintf("Largura (%g cm): ", d.Width)); v != "" {
		d.Width = parseFloat(v, d.Width)
	}
	if v := ask(in, fmt.Sprintf("Comprimento (%g cm): ", d.Length)); v != "" {
		d.Length = parseFloat(v, d.Length)
	}
}

func editDetailedDescription(in *bufio.Reader, item *catalog.Item) {
	fmt.Println("\n--- Enriquecer Descrição Detalhada ---")
	fmt.Println("Descrição Detalhada Atual:")
	if item.DetailedDescription != "" {
		fmt.Println(item.DetailedDescription)
	} else {
		fmt.Println(item.Description)
	}
	fmt.Println("\n-----------------------------------")
	fmt.Println("1. Substituir TUDO")
	fmt.Println("2. Adicionar parágrafos ao final")
	fmt.Println("0. Cancelar")

	switch ask(in, "Opção: ") {
	case "1":
		fmt.Println("Digite a nova descrição detalhada:")
		if v := ask(in, "> "); v != "" {
			item.DetailedDescription = v
		}
	case "2":
		if item.DetailedDescription == "" {
			item.DetailedDescription = item.Description
		}
		for {
			para := ask(in, "Adicionar parágrafo (Enter para finalizar): ")
			if para == "" {
				break
			}
			item.DetailedDescription += "\n\n" + para
		}
	}
}

func publish(in *bufio.Reader) {
	fmt.Println("\nIniciando publicação no site...")
	fmt.Println("Isso vai enviar as alterações para o repositório Git e disparar o deploy.")
	if !askYesNo(in, "Deseja continuar? (s/n): ") {
		fmt.Println("Operação cancelada.")
		fmt.Println()
		return
	}

	commands := [][]string{
		{"git", "add", catalogFile},
		{"git", "commit", "-m", "Atualizacao de produtos via Gerenciador"},
		{"git", "push"},
	}
	for _, args := range commands {
		fmt.Printf("\nExecutando: %s...\n", strings.Join(args, " "))
		cmd := exec.Command(args[0], args[1:]...)
		out, err := cmd.CombinedOutput()
		if err != nil {
			if strings.Contains(string(out), "nothing to commit") {
				fmt.Println("Nenhuma alteração pendente para enviar.")
				continue
			}
			fmt.Printf("Erro ao executar comando: %v\n%s", err, out)
			fmt.Println("Verifique se o Git está instalado e configurado corretamente nesta pasta.")
			return
		}
		fmt.Print(string(out))
	}
	fmt.Println("\nPublicação concluída! O site deve atualizar em alguns minutos.")
	fmt.Println()
}

func askYesNo(in *bufio.Reader, prompt string) bool {
	return strings.EqualFold(ask(in, prompt), "s")
}

func yesNo(v bool) string {
	if v {
		return "SIM"
	}
	return "NÃO"
}

func askPrice(in *bufio.Reader, prompt string, def pricing.Cents) pricing.Cents {
	raw := ask(in, prompt)
	if raw == "" {
		return def
	}
	cents, err := pricing.ParseCents(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		fmt.Println("Preço inválido, usando 0.00.")
		return def
	}
	return cents
}

func askFloat(in *bufio.Reader, prompt string, def float64) float64 {
	raw := ask(in, prompt)
	if raw == "" {
		return def
	}
	return parseFloat(raw, def)
}

func parseFloat(raw string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil {
		return def
	}
	return v
}

func hasID(items []catalog.Item, id int64) bool {
	return indexOf(items, id) >= 0
}

func indexOf(items []catalog.Item, id int64) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
