package session

import (
	"sync"
	"time"
)

// Registry mapa em memória de estado por sessão. Mutações são atômicas por
// chave (read-merge-write sob o lock do registro); leituras retornam
// snapshots para que nenhum chamador segure referência ao estado interno.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*State
}

// NewRegistry cria um registro vazio
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*State),
	}
}

// Get retorna um snapshot do estado da sessão
func (r *Registry) Get(id string) (State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.sessions[id]
	if !ok {
		return State{}, false
	}
	return *state, true
}

// Upsert aplica uma atualização parcial ao estado da sessão, criando a
// entrada quando necessário, e retorna o snapshot resultante
func (r *Registry) Upsert(id string, apply func(*State)) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.sessions[id]
	if !ok {
		state = &State{
			ID:     id,
			Status: StatusDisconnected,
		}
		r.sessions[id] = state
	}

	apply(state)
	state.UpdatedAt = time.Now()

	return *state
}

// Remove descarta o estado em memória da sessão
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// List retorna snapshots de todas as sessões registradas
func (r *Registry) List() []State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make([]State, 0, len(r.sessions))
	for _, state := range r.sessions {
		states = append(states, *state)
	}
	return states
}

// Len retorna o número de sessões registradas
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
